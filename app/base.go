package app

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through a handler on top of StoreApp. The
// optional ticker runs at the beginning of every block, before any
// transaction of that block, against the deliver store.
type BaseApp struct {
	*StoreApp
	decoder htlc.TxDecoder
	handler htlc.Handler
	ticker  htlc.Ticker
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application decoding transactions with decoder and
// dispatching them to handler. Ticker may be nil.
func NewBaseApp(
	store *StoreApp,
	decoder htlc.TxDecoder,
	handler htlc.Handler,
	ticker htlc.Ticker,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		ticker:   ticker,
		debug:    debug,
	}
}

// DeliverTx executes the transaction against the deliver store.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return htlc.DeliverTxError(err, b.debug)
	}
	ctx := htlc.WithLogInfo(b.BlockContext(), "call", "deliver_tx", "path", htlc.GetPath(tx))
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return htlc.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the check store, which is
// reset on every commit.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return htlc.CheckTxError(err, b.debug)
	}
	ctx := htlc.WithLogInfo(b.BlockContext(), "call", "check_tx", "path", htlc.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return htlc.CheckOrError(res, err, b.debug)
}

// BeginBlock updates the block context and runs the ticker. Whatever the
// previous block scheduled is processed before this block transactions.
func (b BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	b.StoreApp.BeginBlock(req)
	if b.ticker == nil {
		return abci.ResponseBeginBlock{}
	}

	ctx := htlc.WithLogInfo(b.BlockContext(), "call", "begin_block")
	res := b.ticker.Tick(ctx, b.DeliverStore())
	if res.Executed+res.Failed > 0 {
		htlc.GetLogger(ctx).Info("tick",
			"height", req.Header.Height, "executed", res.Executed, "failed", res.Failed)
	}
	return res.ToABCI()
}

// decode never panics. A malformed transaction is an input error.
func (b BaseApp) decode(txBytes []byte) (tx htlc.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode tx")
	}
	return tx, nil
}
