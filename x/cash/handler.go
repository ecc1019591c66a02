package cash

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x"
)

const sendTxCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r htlc.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr htlc.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ htlc.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx htlc.Context, store htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return htlc.NewCheck(sendTxCost, ""), nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx htlc.Context, store htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	htlc.GetLogger(ctx).Debug("cash sent",
		"source", msg.Source, "destination", msg.Destination, "amount", msg.Amount)
	return &htlc.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx htlc.Context, tx htlc.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Source, "account owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}
