package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/x/aswap"
	"github.com/iov-one/htlc/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenInitOptions(t *testing.T) {
	raw, key, err := GenInitOptions(nil)
	require.NoError(t, err)
	require.NotNil(t, key)
	addr := key.PublicKey().Address()

	var opts htlc.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	var accts []cash.GenesisAccount
	require.NoError(t, opts.ReadOptions("cash", &accts))
	require.Len(t, accts, 1)
	assert.Equal(t, addr, accts[0].Address)
	assert.Equal(t, uint64(1000000000000), accts[0].Amount)

	var confs map[string]aswap.Configuration
	require.NoError(t, opts.ReadOptions("gconf", &confs))
	conf := confs[aswap.ConfigurationPkg]
	assert.Equal(t, addr, conf.Owner)
	assert.NoError(t, conf.Validate())
}

func TestGenInitOptionsWithAddress(t *testing.T) {
	addr := htlc.NewCondition("sigs", "ed25519", []byte{1, 2, 3}).Address()

	raw, key, err := GenInitOptions([]string{addr.String(), "2.5"})
	require.NoError(t, err)
	assert.Nil(t, key)

	var opts htlc.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	var accts []cash.GenesisAccount
	require.NoError(t, opts.ReadOptions("cash", &accts))
	assert.Equal(t, addr, accts[0].Address)
	assert.Equal(t, uint64(2500000), accts[0].Amount)

	_, _, err = GenInitOptions([]string{"zz"})
	assert.Error(t, err)
	_, _, err = GenInitOptions([]string{addr.String(), "-3"})
	assert.Error(t, err)
}
