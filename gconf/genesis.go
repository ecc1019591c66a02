package gconf

import (
	"sort"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// optKey is the app_state section holding configurations of all packages.
const optKey = "gconf"

// Initializer fulfils the htlc.Initializer interface to load configurations
// from the genesis file.
//
// Every package registered in Configs must have its configuration declared
// in genesis.
type Initializer struct {
	// Configs maps a package name to a constructor of an empty
	// configuration object of that package.
	Configs map[string]func() Configuration
}

var _ htlc.Initializer = Initializer{}

// NewInitializer returns an initializer for given package configurations.
func NewInitializer(configs map[string]func() Configuration) Initializer {
	return Initializer{Configs: configs}
}

// FromGenesis reads and stores configuration of every registered package.
func (i Initializer) FromGenesis(opts htlc.Options, db htlc.KVStore) error {
	pkgs := make([]string, 0, len(i.Configs))
	for pkg := range i.Configs {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		if err := InitConfig(db, opts, pkg, i.Configs[pkg]()); err != nil {
			return errors.Wrapf(err, "package %q", pkg)
		}
	}
	return nil
}
