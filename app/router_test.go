package app

import (
	"context"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

func TestRouter(t *testing.T) {
	var (
		good htlctest.Handler
		bad  = htlctest.Handler{
			CheckErr:   errors.ErrAmount,
			DeliverErr: errors.ErrAmount,
		}
	)

	r := NewRouter()
	r.Handle("good/path", &good)
	r.Handle("bad", &bad)

	assert.Panics(t, func() { r.Handle("good/path", &good) })
	assert.Panics(t, func() { r.Handle("l:7", &good) })

	ctx := context.Background()
	db := store.MemStore()

	cases := map[string]struct {
		tx      htlc.Tx
		wantErr *errors.Error
	}{
		"registered handler": {
			tx: &htlctest.Tx{Msg: &testMsg{path: "good/path"}},
		},
		"handler error is returned": {
			tx:      &htlctest.Tx{Msg: &testMsg{path: "bad"}},
			wantErr: errors.ErrAmount,
		},
		"missing route": {
			tx:      &htlctest.Tx{Msg: &testMsg{path: "missing"}},
			wantErr: errors.ErrNotFound,
		},
		"no message": {
			tx:      &htlctest.Tx{},
			wantErr: errors.ErrInput,
		},
		"message cannot be loaded": {
			tx:      &htlctest.Tx{Err: errors.ErrMsg},
			wantErr: errors.ErrMsg,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := r.Check(ctx, db, tc.tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = r.Deliver(ctx, db, tc.tx)
			assert.IsErr(t, tc.wantErr, err)
		})
	}

	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())
	assert.Equal(t, 1, bad.DeliverCallCount())
}

type testMsg struct {
	path string
}

var _ htlc.Msg = (*testMsg)(nil)

func (m *testMsg) Path() string               { return m.path }
func (m *testMsg) Validate() error            { return nil }
func (m *testMsg) Marshal() ([]byte, error)   { return []byte(m.path), nil }
func (m *testMsg) Unmarshal(raw []byte) error { m.path = string(raw); return nil }
