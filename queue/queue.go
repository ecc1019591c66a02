/*
Package queue implements a persistent FIFO of value transfers.

Transfers are appended in the same store transaction that schedules them
and are executed by the Runner at the beginning of the following block,
after the scheduling state was committed. A failed transfer is logged and
dropped; there are no retries.
*/
package queue

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

const bucketName = "queue"

var (
	bucket = orm.NewModelBucket(bucketName, &Transfer{})
	// head points at the last consumed element, tail at the last
	// appended one. The queue is empty when both are equal.
	head = orm.NewSequence(bucketName, "head")
	tail = orm.NewSequence(bucketName, "tail")
)

// Put appends a transfer to the end of the queue and returns its key.
func Put(db htlc.KVStore, t *Transfer) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid transfer")
	}
	key, err := tail.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}
	if err := bucket.Put(db, key, t); err != nil {
		return nil, errors.Wrap(err, "cannot update queue")
	}
	return key, nil
}

// Pop removes the oldest transfer from the queue and returns it together
// with its key. It returns ErrEmpty if there is nothing queued. An entry
// that cannot be loaded is removed as well; its key is returned together
// with the error.
func Pop(db htlc.KVStore) ([]byte, *Transfer, error) {
	h, err := head.Latest(db)
	if err != nil {
		return nil, nil, err
	}
	t, err := tail.Latest(db)
	if err != nil {
		return nil, nil, err
	}
	if h >= t {
		return nil, nil, errors.Wrap(errors.ErrEmpty, "queue")
	}

	key := orm.EncodeSequence(h + 1)
	var tr Transfer
	loadErr := bucket.One(db, key, &tr)
	if err := db.Delete(bucket.DBKey(key)); err != nil {
		return nil, nil, errors.Wrap(err, "cannot remove transfer")
	}
	if _, err := head.NextInt(db); err != nil {
		return nil, nil, err
	}
	if loadErr != nil {
		return key, nil, errors.Wrapf(loadErr, "cannot load transfer %X", key)
	}
	return key, &tr, nil
}

// Pending returns all queued transfers in the order of execution.
func Pending(db htlc.ReadOnlyKVStore) ([]*Transfer, error) {
	h, err := head.Latest(db)
	if err != nil {
		return nil, err
	}
	t, err := tail.Latest(db)
	if err != nil {
		return nil, err
	}
	res := make([]*Transfer, 0, t-h)
	for i := h + 1; i <= t; i++ {
		var tr Transfer
		if err := bucket.One(db, orm.EncodeSequence(i), &tr); err != nil {
			return nil, errors.Wrapf(err, "transfer %d", i)
		}
		res = append(res, &tr)
	}
	return res, nil
}
