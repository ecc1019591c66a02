package store

import "github.com/iov-one/htlc"

// Aliases to the root interfaces, so implementations in this package can
// refer to them without the prefix.
type (
	ReadOnlyKVStore  = htlc.ReadOnlyKVStore
	SetDeleter       = htlc.SetDeleter
	KVStore          = htlc.KVStore
	Batch            = htlc.Batch
	CacheableKVStore = htlc.CacheableKVStore
	KVCacheWrap      = htlc.KVCacheWrap
	CommitKVStore    = htlc.CommitKVStore
	CommitID         = htlc.CommitID
)
