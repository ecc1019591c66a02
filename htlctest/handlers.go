package htlctest

import "github.com/iov-one/htlc"

// Handler is a mock implementation of the htlc.Handler interface that counts
// calls and returns preconfigured results.
type Handler struct {
	checkCall   int
	CheckResult htlc.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult htlc.DeliverResult
	DeliverErr    error
}

var _ htlc.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

// Decorator is a mock implementation of the htlc.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
type Decorator struct {
	checkCall   int
	CheckErr    error
	deliverCall int
	DeliverErr  error
}

var _ htlc.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Checker) (*htlc.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (*htlc.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}
