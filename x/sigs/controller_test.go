package sigs

import (
	"testing"

	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("foo"), "some-chain", 0)
	require.NoError(t, err)
	b, err := BuildSignBytes([]byte("foo"), "some-chain", 1)
	require.NoError(t, err)
	c, err := BuildSignBytes([]byte("foo"), "other-chain", 0)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = BuildSignBytes([]byte("foo"), "some-chain", -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes([]byte("foo"), "x", 0)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "test-chain"

	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	priv2 := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("payload"))
	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)

	// no signatures
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	// wrong sequence
	tx.Signatures = []*StdSignature{sig1}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// two signers
	tx.Signatures = []*StdSignature{sig0, sig2}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, pub.Condition(), signers[0])
	assert.Equal(t, priv2.PublicKey().Condition(), signers[1])

	seq, err := NextSequence(kv, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	// signature over different bytes
	other := NewStdTx([]byte("other payload"))
	other.Signatures = []*StdSignature{sig1}
	_, err = VerifyTxSignatures(kv, other, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// missing pieces
	other.Signatures = []*StdSignature{{Sequence: 1, Pubkey: pub}}
	_, err = VerifyTxSignatures(kv, other, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
