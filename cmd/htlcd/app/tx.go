package app

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/aswap"
	"github.com/iov-one/htlc/x/cash"
	"github.com/iov-one/htlc/x/sigs"
)

// Tx carries a single message along with the signatures authorizing it.
//
// The message is stored in the field reserved for its type, the same way
// a protobuf oneof is encoded.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        htlc.Msg
}

var _ htlc.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// Field numbers of the supported messages.
const (
	fieldSignatures       = 1
	fieldSendMsg          = 2
	fieldCreateEscrow     = 3
	fieldClaimEscrow      = 4
	fieldUpdateEscrowConf = 5
)

func newMsg(field int) (htlc.Msg, bool) {
	switch field {
	case fieldSendMsg:
		return &cash.SendMsg{}, true
	case fieldCreateEscrow:
		return &aswap.CreateMsg{}, true
	case fieldClaimEscrow:
		return &aswap.ClaimMsg{}, true
	case fieldUpdateEscrowConf:
		return &aswap.UpdateConfigurationMsg{}, true
	}
	return nil, false
}

func msgField(msg htlc.Msg) (int, error) {
	switch msg.(type) {
	case *cash.SendMsg:
		return fieldSendMsg, nil
	case *aswap.CreateMsg:
		return fieldCreateEscrow, nil
	case *aswap.ClaimMsg:
		return fieldClaimEscrow, nil
	case *aswap.UpdateConfigurationMsg:
		return fieldUpdateEscrowConf, nil
	}
	return 0, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
}

// GetMsg returns the message carried by this transaction.
func (tx *Tx) GetMsg() (htlc.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	for _, s := range tx.Signatures {
		if err := enc.Message(fieldSignatures, s); err != nil {
			return nil, errors.Wrap(err, "signature")
		}
	}
	if tx.Msg != nil {
		field, err := msgField(tx.Msg)
		if err != nil {
			return nil, err
		}
		if err := enc.Message(field, tx.Msg); err != nil {
			return nil, errors.Wrap(err, "message")
		}
	}
	return enc.Result(), nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		if field == fieldSignatures {
			b, err := d.Bytes(wire)
			if err != nil {
				return errors.Wrap(err, "signature")
			}
			var sig sigs.StdSignature
			if err := sig.Unmarshal(b); err != nil {
				return err
			}
			tx.Signatures = append(tx.Signatures, &sig)
			continue
		}

		msg, ok := newMsg(field)
		if !ok {
			if err := d.Skip(wire); err != nil {
				return errors.Wrap(err, "tx")
			}
			continue
		}
		if tx.Msg != nil {
			return errors.Wrap(errors.ErrInput, "more than one message")
		}
		b, err := d.Bytes(wire)
		if err != nil {
			return errors.Wrap(err, "message")
		}
		if err := msg.Unmarshal(b); err != nil {
			return err
		}
		tx.Msg = msg
	}
	return nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(raw []byte) (htlc.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return tx, nil
}
