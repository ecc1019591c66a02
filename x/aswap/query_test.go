package aswap

import (
	"context"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestQueries(t *testing.T) {
	f := newFixture(t, 0)
	id := f.create(t, 1, 100, 110, 100)

	qr := htlc.NewQueryRouter()
	RegisterQuery(qr)

	cases := map[string]struct {
		Path    string
		Mod     string
		Height  int64
		Data    []byte
		WantErr *errors.Error
		Check   func(t *testing.T, res []htlc.Model)
	}{
		"escrow record": {
			Path: "/aswaps",
			Data: id,
			Check: func(t *testing.T, res []htlc.Model) {
				assert.Equal(t, 1, len(res))
				var e Escrow
				assert.Nil(t, e.Unmarshal(res[0].Value))
				assert.Equal(t, uint64(100), e.Amount)
				assert.Equal(t, int64(101), e.LockDeadline)
			},
		},
		"missing escrow record": {
			Path: "/aswaps",
			Data: []byte{0, 0, 0, 0, 0, 0, 0, 42},
			Check: func(t *testing.T, res []htlc.Model) {
				assert.Equal(t, 0, len(res))
			},
		},
		"lock not expired at the deadline": {
			Path:   "/aswaps/lock",
			Height: 101,
			Data:   id,
			Check: func(t *testing.T, res []htlc.Model) {
				var s LockStatus
				assert.Nil(t, s.Unmarshal(res[0].Value))
				assert.Equal(t, LockStatus{Expired: false, LockDeadline: 101, Height: 101}, s)
			},
		},
		"lock expired": {
			Path:   "/aswaps/lock",
			Height: 102,
			Data:   id,
			Check: func(t *testing.T, res []htlc.Model) {
				var s LockStatus
				assert.Nil(t, s.Unmarshal(res[0].Value))
				assert.Equal(t, true, s.Expired)
			},
		},
		"lock of missing escrow": {
			Path:    "/aswaps/lock",
			Height:  5,
			Data:    []byte{0, 0, 0, 0, 0, 0, 0, 42},
			WantErr: errors.ErrNotFound,
		},
		"state": {
			Path: "/aswaps/state",
			Data: id,
			Check: func(t *testing.T, res []htlc.Model) {
				assert.Equal(t, id, res[0].Key)
				assert.Equal(t, "Init", string(res[0].Value))
			},
		},
		"prefix mode not supported": {
			Path:    "/aswaps/state",
			Mod:     htlc.PrefixQueryMod,
			Data:    id,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := htlc.WithHeight(context.Background(), tc.Height)
			res, err := qr.Handler(tc.Path).Query(ctx, f.db, tc.Mod, tc.Data)
			assert.IsErr(t, tc.WantErr, err)
			if tc.Check != nil {
				tc.Check(t, res)
			}
		})
	}
}

func TestCheckLockInAnyState(t *testing.T) {
	f := newFixture(t, 0)
	id := f.create(t, 1, 100, 110, 100)
	b := NewBucket()

	e, err := b.GetEscrow(f.db, id)
	assert.Nil(t, err)
	e.State = StateCommitted
	assert.Nil(t, b.Put(f.db, id, e))

	status, err := CheckLock(f.db, b, id, 500)
	assert.Nil(t, err)
	assert.Equal(t, true, status.Expired)
}
