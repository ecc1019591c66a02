package cash

import (
	"github.com/iov-one/htlc"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use htlc.Address, so address in hex, not base64
type GenesisAccount struct {
	Address htlc.Address `json:"address"`
	Amount  uint64       `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ htlc.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts htlc.Options, kv htlc.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewBucket())
	for _, acct := range accts {
		if err := control.IssueCoins(kv, acct.Address, acct.Amount); err != nil {
			return err
		}
	}
	return nil
}
