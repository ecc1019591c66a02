package sigs

import (
	"testing"

	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		user    UserData
		wantErr map[string]*errors.Error
	}{
		"valid": {
			user:    UserData{Pubkey: pub, Sequence: 3},
			wantErr: map[string]*errors.Error{"Sequence": nil, "Pubkey": nil},
		},
		"negative sequence": {
			user:    UserData{Pubkey: pub, Sequence: -1},
			wantErr: map[string]*errors.Error{"Sequence": ErrInvalidSequence, "Pubkey": nil},
		},
		"sequence without key": {
			user:    UserData{Sequence: 1},
			wantErr: map[string]*errors.Error{"Sequence": ErrInvalidSequence, "Pubkey": nil},
		},
		"bad key": {
			user:    UserData{Pubkey: &crypto.PublicKey{Ed25519: []byte{1}}},
			wantErr: map[string]*errors.Error{"Sequence": nil, "Pubkey": errors.ErrInput},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.user.Validate()
			for field, want := range tc.wantErr {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := UserData{Sequence: 5}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(4))
	assert.Nil(t, u.CheckAndIncrementSequence(5))
	assert.Equal(t, int64(6), u.Sequence)

	u = UserData{Sequence: maxSequenceValue}
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(maxSequenceValue))
}

func TestUserBucket(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	u, err := b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), u.Sequence)

	u.Sequence = 9
	assert.Nil(t, b.Save(db, u))

	got, err := b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, u, got)

	assert.IsErr(t, errors.ErrEmpty, b.Save(db, &UserData{}))
}
