package utils

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Recovery converts a panic raised further down the chain into an
// ErrPanic error, so that the transaction fails instead of the node. The
// panic is logged with the path of the message that caused it.
type Recovery struct{}

var _ htlc.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx htlc.Context, store htlc.KVStore, tx htlc.Tx, next htlc.Checker) (_ *htlc.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicked(ctx, tx, "check", r)
		}
	}()
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx htlc.Context, store htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (_ *htlc.DeliverResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicked(ctx, tx, "deliver", r)
		}
	}()
	return next.Deliver(ctx, store, tx)
}

func panicked(ctx htlc.Context, tx htlc.Tx, call string, r interface{}) error {
	path := "(missing)"
	if tx != nil {
		path = htlc.GetPath(tx)
	}
	err := errors.Wrapf(errors.ErrPanic, "%s %s: %v", call, path, r)
	htlc.GetLogger(ctx).Error("handler panic", "call", call, "path", path, "panic", r)
	return err
}
