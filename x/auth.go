/*
Package x contains the glue shared by the escrow, cash and configuration
extensions: how a handler learns who signed the transaction it processes.
*/
package x

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Authenticator extracts the conditions fulfilled by the current
// transaction from the context. Handlers receive one in their constructor
// instead of depending on x/sigs directly.
type Authenticator interface {
	GetConditions(htlc.Context) []htlc.Condition
	HasAddress(htlc.Context, htlc.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions returns the conditions of all Authenticators, in order.
func (m MultiAuth) GetConditions(ctx htlc.Context) []htlc.Condition {
	var res []htlc.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true if any Authenticator knows the address.
func (m MultiAuth) HasAddress(ctx htlc.Context, addr htlc.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions. A claim is
// evaluated against this list.
func GetAddresses(ctx htlc.Context, auth Authenticator) []htlc.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]htlc.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// RequireSigner returns ErrUnauthorized unless addr is authenticated. Role
// names the party in the error message, for example "depositor".
func RequireSigner(ctx htlc.Context, auth Authenticator, addr htlc.Address, role string) error {
	if len(addr) == 0 {
		return errors.Wrapf(errors.ErrUnauthorized, "%s not set", role)
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
	}
	return nil
}
