package app

import (
	"encoding/json"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/aswap"
	"github.com/iov-one/htlc/x/cash"
)

// Genesis defaults of the escrow configuration.
const (
	DefaultMinMargin       = "0.01"
	DefaultStorageReserve  = 0
	DefaultMinLockDuration = 10
	DefaultMaxLockDuration = 100000
)

// DefaultAmount is given to the genesis account when no amount is provided.
const DefaultAmount = "1000000"

// GenInitOptions produces the app_state of a development chain: one rich
// account that also owns the escrow configuration.
//
// Arguments are an optional address and an optional amount in whole units.
// When no address is given a new key is generated and returned, it is nil
// otherwise.
func GenInitOptions(args []string) (json.RawMessage, *crypto.PrivateKey, error) {
	var (
		addr htlc.Address
		key  *crypto.PrivateKey
	)
	if len(args) > 0 && args[0] != "" {
		a, err := htlc.ParseAddress(args[0])
		if err != nil {
			return nil, nil, errors.Wrap(err, "address")
		}
		addr = a
	} else {
		key = crypto.GenPrivKeyEd25519()
		addr = key.PublicKey().Address()
	}

	amount := DefaultAmount
	if len(args) > 1 {
		amount = args[1]
	}
	base, err := ParseAmount(amount)
	if err != nil {
		return nil, nil, err
	}

	opts := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: addr, Amount: base},
		},
		"gconf": map[string]interface{}{
			aswap.ConfigurationPkg: aswap.Configuration{
				Owner:           addr,
				MinMargin:       DefaultMinMargin,
				StorageReserve:  DefaultStorageReserve,
				MinLockDuration: DefaultMinLockDuration,
				MaxLockDuration: DefaultMaxLockDuration,
			},
		},
	}
	raw, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, key, nil
}
