package queue

import (
	"fmt"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

// Transfer is a request to move Amount from one account to another,
// executed at the beginning of the next block.
type Transfer struct {
	From   htlc.Address
	To     htlc.Address
	Amount uint64
	// Ref is an optional reference of the entity that scheduled the
	// transfer, for example an escrow ID.
	Ref []byte
	// Reason is a short, human readable label, for example "payout".
	Reason string
}

var _ orm.Model = (*Transfer)(nil)

func (t *Transfer) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "From", t.From.Validate())
	errs = errors.AppendField(errs, "To", t.To.Validate())
	if t.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (t *Transfer) String() string {
	return fmt.Sprintf("%d from %s to %s (%s)", t.Amount, t.From, t.To, t.Reason)
}

func (t *Transfer) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, t.From).
		Bytes(2, t.To).
		Uint64(3, t.Amount).
		Bytes(4, t.Ref).
		String(5, t.Reason).
		Result(), nil
}

func (t *Transfer) Unmarshal(raw []byte) error {
	*t = Transfer{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			t.From, err = d.Bytes(wire)
		case 2:
			t.To, err = d.Bytes(wire)
		case 3:
			t.Amount, err = d.Uint64(wire)
		case 4:
			t.Ref, err = d.Bytes(wire)
		case 5:
			t.Reason, err = d.String(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "transfer")
		}
	}
	return nil
}
