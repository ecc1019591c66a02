package aswap

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
)

// RegisterQuery registers escrow queries:
//
//   /aswaps        the escrow record by ID
//   /aswaps/lock   LockStatus of the escrow by ID
//   /aswaps/state  the state name of the escrow by ID
func RegisterQuery(qr htlc.QueryRouter) {
	b := NewBucket()
	b.Register("aswaps", qr)
	qr.Register("/aswaps/lock", htlc.QueryHandlerFunc(func(ctx htlc.Context, db htlc.ReadOnlyKVStore, mod string, id []byte) ([]htlc.Model, error) {
		if mod != htlc.KeyQueryMod {
			return nil, errors.Wrapf(errors.ErrInput, "unsupported query mode %q", mod)
		}
		height, ok := htlc.GetHeight(ctx)
		if !ok {
			return nil, errors.Wrap(errors.ErrHuman, "height not in context")
		}
		status, err := CheckLock(db, b, id, height)
		if err != nil {
			return nil, err
		}
		raw, err := status.Marshal()
		if err != nil {
			return nil, err
		}
		return []htlc.Model{htlc.Pair(id, raw)}, nil
	}))
	qr.Register("/aswaps/state", htlc.QueryHandlerFunc(func(ctx htlc.Context, db htlc.ReadOnlyKVStore, mod string, id []byte) ([]htlc.Model, error) {
		if mod != htlc.KeyQueryMod {
			return nil, errors.Wrapf(errors.ErrInput, "unsupported query mode %q", mod)
		}
		state, err := GetState(db, b, id)
		if err != nil {
			return nil, err
		}
		return []htlc.Model{htlc.Pair(id, []byte(state.String()))}, nil
	}))
}

// LockStatus is the result of a lock check.
type LockStatus struct {
	Expired      bool
	LockDeadline int64
	Height       int64
}

func (s *LockStatus) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bool(1, s.Expired).
		Int64(2, s.LockDeadline).
		Int64(3, s.Height).
		Result(), nil
}

func (s *LockStatus) Unmarshal(raw []byte) error {
	*s = LockStatus{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Expired, err = d.Bool(wire)
		case 2:
			s.LockDeadline, err = d.Int64(wire)
		case 3:
			s.Height, err = d.Int64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "lock status")
		}
	}
	return nil
}

// CheckLock reports whether the escrow deadline has passed at given height.
// It can be called in any state.
func CheckLock(db htlc.ReadOnlyKVStore, b Bucket, id []byte, height int64) (*LockStatus, error) {
	e, err := b.GetEscrow(db, id)
	if err != nil {
		return nil, err
	}
	return &LockStatus{
		Expired:      IsExpired(e, height),
		LockDeadline: e.LockDeadline,
		Height:       height,
	}, nil
}

// GetState returns the current state of the escrow.
func GetState(db htlc.ReadOnlyKVStore, b Bucket, id []byte) (State, error) {
	e, err := b.GetEscrow(db, id)
	if err != nil {
		return 0, err
	}
	return e.State, nil
}
