/*
Package iavl provides a persistent, merkleized commit store backed by an
iavl tree on top of a goleveldb (or in memory) database.
*/
package iavl

import (
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const cacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing. Data is kept in a
// leveldb database called name inside of the dir directory.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return newCommitStore(db), nil
}

// NewMemCommitStore creates a store that keeps everything in memory.
func NewMemCommitStore() CommitStore {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) CommitStore {
	return CommitStore{
		tree: iavl.NewMutableTree(db, cacheSize),
		db:   db,
	}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions.
// Written data lands in the working tree and is persisted with the next
// Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	w := workingTree{tree: s.tree}
	return store.NewBTreeCacheWrap(w, w.NewBatch(), nil)
}

// Close releases the underlying database.
func (s CommitStore) Close() {
	s.db.Close()
}

// workingTree exposes the uncommitted state of the tree as a KVStore.
type workingTree struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = workingTree{}

func (w workingTree) Get(key []byte) ([]byte, error) {
	_, val := w.tree.Get(key)
	return val, nil
}

func (w workingTree) Has(key []byte) (bool, error) {
	return w.tree.Has(key), nil
}

func (w workingTree) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w workingTree) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

func (w workingTree) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(w)
}
