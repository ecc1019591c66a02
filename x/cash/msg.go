package cash

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize = 128
)

// SendMsg moves Amount from the Source account to the Destination account.
type SendMsg struct {
	Source      htlc.Address
	Destination htlc.Address
	Amount      uint64
	Memo        string
}

var _ htlc.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "cannot be longer than %d", maxMemoSize))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Source).
		Bytes(2, m.Destination).
		Uint64(3, m.Amount).
		String(4, m.Memo).
		Result(), nil
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Source, err = d.Bytes(wire)
		case 2:
			m.Destination, err = d.Bytes(wire)
		case 3:
			m.Amount, err = d.Uint64(wire)
		case 4:
			m.Memo, err = d.String(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "send msg")
		}
	}
	return nil
}
