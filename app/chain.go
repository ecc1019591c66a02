package app

import (
	"reflect"

	"github.com/iov-one/htlc"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []htlc.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    app.NewRouter(),
  )
*/
func ChainDecorators(chain ...htlc.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...htlc.Decorator) Decorators {
	chain = cutoffNil(chain)
	next := make([]htlc.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	next = append(next, chain...)
	return Decorators{chain: next}
}

// cutoffNil removes all nil values from given slice in place.
func cutoffNil(ds []htlc.Decorator) []htlc.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h htlc.Handler) htlc.Handler {
	// the top of the chain is executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one decorator wrapped around a specific Handler.
type step struct {
	d    htlc.Decorator
	next htlc.Handler
}

var _ htlc.Handler = step{}

func (s step) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
