/*
Package crypto provides ed25519 keys used to sign transactions and to
authenticate their signers.
*/
package crypto

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a condition
func (p *PublicKey) Condition() htlc.Condition {
	return htlc.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address controlled by this key.
func (p *PublicKey) Address() htlc.Address {
	return p.Condition().Address()
}

// Validate ensures the key is of a proper size.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key size %d", len(p.Ed25519))
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, p.Ed25519).Result(), nil
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	*p = PublicKey{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			p.Ed25519, err = d.Bytes(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "public key")
		}
	}
	return nil
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, s.Ed25519).Result(), nil
}

func (s *Signature) Unmarshal(raw []byte) error {
	*s = Signature{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Ed25519, err = d.Bytes(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "signature")
		}
	}
	return nil
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
