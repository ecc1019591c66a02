package app

import (
	"context"
	"io/ioutil"
	"os"
	"strconv"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
)

const testChainID = "test-chain-1"

// heightQuery returns the requested key along with the height found in the
// context.
func heightQuery(qr htlc.QueryRouter) {
	qr.Register("/height", htlc.QueryHandlerFunc(func(ctx htlc.Context, db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
		if mod != htlc.KeyQueryMod {
			return nil, errors.Wrap(errors.ErrInput, mod)
		}
		height := htlc.MustGetHeight(ctx)
		return []htlc.Model{htlc.Pair(data, []byte(strconv.FormatInt(height, 10)))}, nil
	}))
}

func newTestStoreApp(t testing.TB, cs htlc.CommitKVStore) *StoreApp {
	t.Helper()
	qr := htlc.NewQueryRouter()
	qr.RegisterAll(heightQuery)
	return NewStoreApp("test", cs, qr, context.Background())
}

func TestStoreAppInitChain(t *testing.T) {
	cases := map[string]struct {
		appState []byte
		chainID  string
		wantErr  *errors.Error
	}{
		"valid genesis": {
			appState: []byte(`{}`),
			chainID:  testChainID,
		},
		"missing app state": {
			chainID: testChainID,
			wantErr: errors.ErrEmpty,
		},
		"malformed app state": {
			appState: []byte(`[1, 2`),
			chainID:  testChainID,
			wantErr:  errors.ErrInput,
		},
		"invalid chain id": {
			appState: []byte(`{}`),
			chainID:  "x",
			wantErr:  errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := newTestStoreApp(t, iavl.NewMemCommitStore())
			err := s.parseAppState(tc.appState, tc.chainID)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.chainID, s.GetChainID())
				assert.Equal(t, tc.chainID, htlc.GetChainID(s.BlockContext()))
			}
		})
	}
}

func TestStoreAppInitChainTwice(t *testing.T) {
	s := newTestStoreApp(t, iavl.NewMemCommitStore())
	s.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	})
}

func TestStoreAppBlockHeightIsMonotonic(t *testing.T) {
	s := newTestStoreApp(t, iavl.NewMemCommitStore())

	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 3}})
	assert.Equal(t, int64(3), htlc.MustGetHeight(s.BlockContext()))

	// the same height is accepted
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 3}})
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 4}})
	assert.Equal(t, int64(4), htlc.MustGetHeight(s.BlockContext()))

	assert.Panics(t, func() {
		s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
	})
	assert.Equal(t, int64(4), htlc.MustGetHeight(s.BlockContext()))
}

func TestStoreAppQuery(t *testing.T) {
	s := newTestStoreApp(t, iavl.NewMemCommitStore())
	s.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	s.Commit()

	res := s.Query(abci.RequestQuery{Path: "/height", Data: []byte("k")})
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, int64(1), res.Height)

	var keys, values ResultSet
	assert.Nil(t, keys.Unmarshal(res.Key))
	assert.Nil(t, values.Unmarshal(res.Value))
	models, err := JoinResults(&keys, &values)
	assert.Nil(t, err)
	assert.Equal(t, []htlc.Model{htlc.Pair([]byte("k"), []byte("1"))}, models)

	res = s.Query(abci.RequestQuery{Path: "/height?prefix", Data: []byte("k")})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	res = s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}

func TestStoreAppRestart(t *testing.T) {
	dir, err := ioutil.TempDir("", "storeapp")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	cs, err := iavl.NewCommitStore(dir, "state")
	assert.Nil(t, err)
	s := newTestStoreApp(t, cs)
	s.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	first := s.Commit()
	assert.Equal(t, false, len(first.Data) == 0)
	cs.Close()

	cs, err = iavl.NewCommitStore(dir, "state")
	assert.Nil(t, err)
	defer cs.Close()
	s = newTestStoreApp(t, cs)

	assert.Equal(t, testChainID, s.GetChainID())
	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, first.Data, info.LastBlockAppHash)
	assert.Equal(t, "test", info.Data)

	assert.Panics(t, func() {
		s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 0}})
	})
}
