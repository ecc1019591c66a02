package sigs

import (
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a single signature together with the public key and the
// sequence used to create it.
type StdSignature struct {
	Sequence  int64
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	enc := codec.NewEncoder().Int64(1, s.Sequence)
	if err := enc.Message(2, s.Pubkey); err != nil {
		return nil, err
	}
	if err := enc.Message(3, s.Signature); err != nil {
		return nil, err
	}
	return enc.Result(), nil
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Sequence, err = d.Int64(wire)
		case 2:
			var b []byte
			if b, err = d.Bytes(wire); err == nil {
				s.Pubkey = &crypto.PublicKey{}
				err = s.Pubkey.Unmarshal(b)
			}
		case 3:
			var b []byte
			if b, err = d.Bytes(wire); err == nil {
				s.Signature = &crypto.Signature{}
				err = s.Signature.Unmarshal(b)
			}
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "signature")
		}
	}
	return nil
}
