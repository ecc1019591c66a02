package htlctest

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Tx carries a single message to a handler called directly, without
// signatures or the application envelope.
type Tx struct {
	Msg htlc.Msg
	// Err is returned by GetMsg instead of the message when set.
	Err error
}

var _ htlc.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (htlc.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Marshal returns the serialized message.
func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "test transaction cannot be decoded")
}
