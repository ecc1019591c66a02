package cash

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single account in base units.
type Wallet struct {
	Amount uint64
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint64(1, w.Amount).Result(), nil
}

func (w *Wallet) Unmarshal(raw []byte) error {
	*w = Wallet{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			w.Amount, err = d.Uint64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "wallet")
		}
	}
	return nil
}

// Add increases the balance, failing on overflow.
func (w *Wallet) Add(amount uint64) error {
	sum := w.Amount + amount
	if sum < w.Amount {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Amount = sum
	return nil
}

// Subtract decreases the balance, failing if funds are insufficient.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", w.Amount, amount)
	}
	w.Amount -= amount
	return nil
}

// Bucket stores wallets keyed by the account address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// GetOrCreate returns the wallet of given address or an empty one if none
// exist yet.
func (b Bucket) GetOrCreate(db htlc.ReadOnlyKVStore, addr htlc.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}
