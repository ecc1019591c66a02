package aswap

import (
	"fmt"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

const (
	// BucketName is where we store the escrows
	BucketName = "aswap"

	secretHashSize = 32
)

// State is the phase of an escrow.
type State int32

const (
	StateInit State = iota + 1
	// StateClaimed marks a claim being evaluated. It is never persisted.
	StateClaimed
	StateReverted
	StateCommitted
)

var stateNames = map[State]string{
	StateInit:      "Init",
	StateClaimed:   "Claimed",
	StateReverted:  "Reverted",
	StateCommitted: "Committed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// ParseState returns the state of given name.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown state %q", name)
}

// IsFinal returns true if no transition from this state exists.
func (s State) IsFinal() bool {
	return s == StateReverted || s == StateCommitted
}

// Escrow holds the terms and the state of a single swap.
type Escrow struct {
	Depositor    htlc.Address
	Amount       uint64
	Recipient    htlc.Address
	SecretHash   []byte
	LockDeadline int64
	State        State
	// StorageReserve is the part of the custody balance that is never paid
	// out. It is fixed when the escrow is created.
	StorageReserve uint64
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid. Claimed state is never valid for a
// persisted escrow.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", e.Depositor.Validate())
	errs = errors.AppendField(errs, "Recipient", e.Recipient.Validate())
	if e.Depositor.Equals(e.Recipient) {
		errs = errors.Append(errs, errors.Field("Recipient", errors.ErrInput, "must differ from depositor"))
	}
	if e.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "SecretHash", validateSecretHash(e.SecretHash))
	if e.LockDeadline <= 0 {
		errs = errors.Append(errs, errors.Field("LockDeadline", errors.ErrInput, "must be positive"))
	}
	switch e.State {
	case StateInit, StateReverted, StateCommitted:
	default:
		errs = errors.Append(errs, errors.Field("State", errors.ErrState, "%s cannot be stored", e.State))
	}
	return errs
}

func validateSecretHash(h []byte) error {
	if len(h) != secretHashSize {
		return errors.Wrapf(errors.ErrInput, "must be %d bytes, got %d", secretHashSize, len(h))
	}
	return nil
}

func (e *Escrow) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, e.Depositor).
		Uint64(2, e.Amount).
		Bytes(3, e.Recipient).
		Bytes(4, e.SecretHash).
		Int64(5, e.LockDeadline).
		Int64(6, int64(e.State)).
		Uint64(7, e.StorageReserve).
		Result(), nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			e.Depositor, err = d.Bytes(wire)
		case 2:
			e.Amount, err = d.Uint64(wire)
		case 3:
			e.Recipient, err = d.Bytes(wire)
		case 4:
			e.SecretHash, err = d.Bytes(wire)
		case 5:
			e.LockDeadline, err = d.Int64(wire)
		case 6:
			var s int64
			s, err = d.Int64(wire)
			e.State = State(s)
		case 7:
			e.StorageReserve, err = d.Uint64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "escrow")
		}
	}
	return nil
}

// EscrowAddr returns the address of the custody account of the escrow with
// given ID.
func EscrowAddr(id []byte) htlc.Address {
	return htlc.NewCondition(BucketName, "escrow", id).Address()
}

// Bucket stores escrows keyed by a sequence ID.
type Bucket struct {
	orm.ModelBucket
	idSeq orm.Sequence
}

// NewBucket returns a bucket for managing escrows.
func NewBucket() Bucket {
	b := orm.NewModelBucket(BucketName, &Escrow{})
	return Bucket{
		ModelBucket: b,
		idSeq:       b.Sequence("id"),
	}
}

// Create stores a new escrow under the next available ID and returns it.
func (b Bucket) Create(db htlc.KVStore, e *Escrow) ([]byte, error) {
	id, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire ID")
	}
	if err := b.Put(db, id, e); err != nil {
		return nil, err
	}
	return id, nil
}

// GetEscrow loads the escrow with given ID.
func (b Bucket) GetEscrow(db htlc.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var e Escrow
	if err := b.One(db, id, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %X", id)
	}
	return &e, nil
}
