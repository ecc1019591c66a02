package app

import (
	"context"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
	"github.com/iov-one/htlc/x/utils"
)

func TestChain(t *testing.T) {
	var (
		c1 htlctest.Decorator
		c2 htlctest.Decorator
		h  htlctest.Handler
	)
	var nilDecorator *htlctest.Decorator

	stack := ChainDecorators(
		&c1,
		utils.NewLogging(),
		nil,
		nilDecorator,
		utils.NewRecovery(),
		&c2,
	).WithHandler(&h)

	ctx := htlc.WithHeight(context.Background(), 4)
	db := store.MemStore()

	_, err := stack.Check(ctx, db, &htlctest.Tx{})
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, db, &htlctest.Tx{})
	assert.Nil(t, err)

	assert.Equal(t, 1, c1.CheckCallCount())
	assert.Equal(t, 1, c1.DeliverCallCount())
	assert.Equal(t, 1, c2.CheckCallCount())
	assert.Equal(t, 1, c2.DeliverCallCount())
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	// a failing decorator stops the chain
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, db, &htlctest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 2, c1.DeliverCallCount())
	assert.Equal(t, 2, c2.DeliverCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainPanicIsRecovered(t *testing.T) {
	stack := ChainDecorators(utils.NewRecovery()).WithHandler(panicHandler{})
	db := store.MemStore()

	_, err := stack.Check(context.Background(), db, &htlctest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(context.Background(), db, &htlctest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
}

type panicHandler struct{}

func (panicHandler) Check(htlc.Context, htlc.KVStore, htlc.Tx) (*htlc.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(htlc.Context, htlc.KVStore, htlc.Tx) (*htlc.DeliverResult, error) {
	panic("deliver")
}
