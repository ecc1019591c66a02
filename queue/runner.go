package queue

import (
	"encoding/hex"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

// Tag keys set for every processed transfer. The value is the hex encoded
// reference of the transfer.
const (
	TagExecuted = "transfer.executed"
	TagFailed   = "transfer.failed"
)

// Runner executes queued transfers. It implements htlc.Ticker so it can be
// called at the beginning of every block.
type Runner struct {
	control cash.Controller
}

var _ htlc.Ticker = (*Runner)(nil)

// NewRunner returns a runner moving value using given controller.
func NewRunner(control cash.Controller) *Runner {
	return &Runner{control: control}
}

// Tick processes all queued transfers in order. Removing a transfer from the
// queue and executing it are separate atomic steps, so a failed transfer is
// dropped without affecting other transfers. An entry that cannot be read is
// dropped too and reported with its queue key as the tag value.
func (r *Runner) Tick(ctx htlc.Context, db htlc.CacheableKVStore) htlc.TickResult {
	log := htlc.GetLogger(ctx).With("module", "queue")
	var res htlc.TickResult

	for {
		key, tr, err := r.pop(db)
		switch {
		case errors.ErrEmpty.Is(err):
			return res
		case err != nil && key != nil:
			res.Failed++
			res.Tags = append(res.Tags, common.KVPair{Key: []byte(TagFailed), Value: []byte(hex.EncodeToString(key))})
			log.Error("dropped unreadable transfer", "key", key, "err", err)
			continue
		case err != nil:
			log.Error("cannot pop transfer", "err", err)
			return res
		}

		ref := hex.EncodeToString(tr.Ref)
		if err := r.execute(db, tr); err != nil {
			res.Failed++
			res.Tags = append(res.Tags, common.KVPair{Key: []byte(TagFailed), Value: []byte(ref)})
			log.Error("transfer failed", "transfer", tr.String(), "ref", ref, "err", err)
			continue
		}
		res.Executed++
		res.Tags = append(res.Tags, common.KVPair{Key: []byte(TagExecuted), Value: []byte(ref)})
		log.Info("transfer executed", "transfer", tr.String(), "ref", ref)
	}
}

// pop removes the next entry in its own cache wrap. The removal is kept
// when the entry could not be loaded, so that it is not read again.
func (r *Runner) pop(db htlc.CacheableKVStore) ([]byte, *Transfer, error) {
	cache := db.CacheWrap()
	key, tr, err := Pop(cache)
	if err != nil && key == nil {
		cache.Discard()
		return nil, nil, err
	}
	if werr := cache.Write(); werr != nil {
		return nil, nil, errors.Wrap(werr, "cache write")
	}
	return key, tr, err
}

func (r *Runner) execute(db htlc.CacheableKVStore, tr *Transfer) error {
	cache := db.CacheWrap()
	if err := r.control.MoveCoins(cache, tr.From, tr.To, tr.Amount); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
