package htlctest

import (
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestTx(t *testing.T) {
	tx := &Tx{Err: errors.ErrMsg}
	msg, err := tx.GetMsg()
	assert.IsErr(t, errors.ErrMsg, err)
	assert.Nil(t, msg)

	_, err = tx.Marshal()
	assert.IsErr(t, errors.ErrEmpty, err)
	assert.IsErr(t, errors.ErrHuman, tx.Unmarshal(nil))
}
