package cash

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Controller is the functionality needed by cash.Handler and the escrow
// extension. It reads and moves value between accounts.
type Controller interface {
	Balance(htlc.ReadOnlyKVStore, htlc.Address) (uint64, error)
	MoveCoins(htlc.KVStore, htlc.Address, htlc.Address, uint64) error
	IssueCoins(htlc.KVStore, htlc.Address, uint64) error
}

// BaseController is a simple implementation of controller
// wallet must return something that supports AsSet
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by given account. Unknown accounts hold
// nothing.
func (c BaseController) Balance(store htlc.ReadOnlyKVStore, addr htlc.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	w, err := c.bucket.GetOrCreate(store, addr)
	if err != nil {
		return 0, err
	}
	return w.Amount, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails. A drained source wallet is removed.
func (c BaseController) MoveCoins(store htlc.KVStore, src, dest htlc.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	if err := c.bucket.Has(store, src); err != nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	sender, err := c.bucket.GetOrCreate(store, src)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := c.save(store, src, sender); err != nil {
		return err
	}

	// load after saving the sender, in case src and dest are the same
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(store, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(store htlc.KVStore, dest htlc.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(store, dest, recipient)
}

// save stores the wallet, or removes it when it holds nothing. An empty
// wallet reads the same as a missing one.
func (c BaseController) save(store htlc.KVStore, addr htlc.Address, w *Wallet) error {
	if w.Amount == 0 {
		return c.bucket.Delete(store, addr)
	}
	return c.bucket.Put(store, addr, w)
}
