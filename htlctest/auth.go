/*
Package htlctest provides mocks and helpers for testing extensions.
*/
package htlctest

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/iov-one/htlc"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer htlc.Condition

	// Signers represents an authentication of multiple signers.
	Signers []htlc.Condition
}

func (a *Auth) GetConditions(htlc.Context) []htlc.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx htlc.Context, addr htlc.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

type ctxAuthKey string

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context.
	Key string
}

func (a CtxAuth) SetConditions(ctx htlc.Context, permissions ...htlc.Condition) htlc.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a CtxAuth) GetConditions(ctx htlc.Context) []htlc.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]htlc.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []htlc.Condition got %T", val))
	}
	return conds
}

func (a CtxAuth) HasAddress(ctx htlc.Context, addr htlc.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

var condCounter uint64

// NewCondition returns a new and unique condition every call.
func NewCondition() htlc.Condition {
	n := atomic.AddUint64(&condCounter, 1)
	return htlc.NewCondition("test", "seq", []byte(fmt.Sprintf("%08d", n)))
}
