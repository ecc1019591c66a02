package htlc_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexadecimal address printing", t, func() {
		addr := htlc.NewAddress([]byte("depositor"))
		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", []byte(addr)))
		So(htlc.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("test hexadecimal condition printing", t, func() {
		cond := htlc.NewCondition("sigs", "ed25519", []byte("ABCD"))
		So(cond.String(), ShouldEqual, "sigs/ed25519/41424344")
		So(htlc.Condition("no slashes").String(), ShouldStartWith, "Invalid Condition")
	})
}

func TestConditionParse(t *testing.T) {
	cond := htlc.NewCondition("aswap", "escrow", []byte{0, 0, 1, '\n'})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "aswap", ext)
	assert.Equal(t, "escrow", typ)
	assert.Equal(t, []byte{0, 0, 1, '\n'}, data)
	assert.NoError(t, cond.Validate())

	addr := cond.Address()
	assert.Len(t, addr, htlc.AddressLength)
	assert.True(t, addr.Equals(htlc.NewAddress(cond)))
	assert.NoError(t, addr.Validate())

	bad := htlc.Condition("ab/c/data")
	_, _, _, err = bad.Parse()
	assert.True(t, errors.ErrInput.Is(err))
	assert.True(t, errors.ErrInput.Is(bad.Validate()))
}

func TestAddressValidate(t *testing.T) {
	assert.True(t, errors.ErrEmpty.Is(htlc.Address(nil).Validate()))
	assert.True(t, errors.ErrInput.Is(htlc.Address("short").Validate()))
	assert.Nil(t, htlc.NewAddress(nil))
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := htlc.NewAddress([]byte("recipient"))
	hexAddr := hex.EncodeToString(addr)
	cond := htlc.NewCondition("foo", "bar", []byte("conditiondata"))
	bech, err := addr.Bech32("htlc")
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr htlc.Address
	}{
		"default decoding": {
			json:     `"` + hexAddr + `"`,
			wantAddr: addr,
		},
		"hex decoding": {
			json:     `"hex:` + strings.ToUpper(hexAddr) + `"`,
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     `"bech32:` + bech + `"`,
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: cond.Address(),
		},
		"invalid hex length": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid bech32": {
			json:    `"bech32:htlc1qqqq"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a htlc.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := htlc.NewAddress([]byte("depositor"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(raw))

	var back htlc.Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, addr, back)

	raw, err = json.Marshal(htlc.Address(nil))
	require.NoError(t, err)
	assert.Equal(t, `""`, string(raw))
}

func TestAddressClone(t *testing.T) {
	addr := htlc.NewAddress([]byte("a"))
	cpy := addr.Clone()
	assert.Equal(t, addr, cpy)
	cpy[0]++
	assert.NotEqual(t, addr, cpy)
	assert.Nil(t, htlc.Address(nil).Clone())
}
