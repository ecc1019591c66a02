/*
Package app links together all the various components
to construct the htlcd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/app"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/gconf"
	"github.com/iov-one/htlc/queue"
	"github.com/iov-one/htlc/store/iavl"
	"github.com/iov-one/htlc/x"
	"github.com/iov-one/htlc/x/aswap"
	"github.com/iov-one/htlc/x/cash"
	"github.com/iov-one/htlc/x/sigs"
	"github.com/iov-one/htlc/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by abci Info.
const Name = "htlcd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx still increment the nonce
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching cash transfers and escrow messages.
func Router(authFn x.Authenticator, control cash.Controller) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, control)
	aswap.RegisterRoutes(r, authFn, control)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/aswaps", "/aswaps/lock"
// and "/aswaps/state"
func QueryRouter() htlc.QueryRouter {
	r := htlc.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		aswap.RegisterQuery,
	)
	return r
}

// Initializers returns everything that reads the genesis app_state.
func Initializers() htlc.Initializer {
	return htlc.ChainInitializers(
		cash.Initializer{},
		gconf.NewInitializer(map[string]func() gconf.Configuration{
			aswap.ConfigurationPkg: aswap.NewConfiguration,
		}),
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(control cash.Controller) htlc.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, control))
}

// Application constructs the ABCI application backed by the database found
// at dbPath. An empty dbPath keeps all data in memory.
//
// Transfers scheduled by escrow claims are executed at the beginning of
// the next block.
func Application(dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	control := cash.NewController(cash.NewBucket())
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers()).
		WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, Stack(control), queue.NewRunner(control), debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (htlc.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database path %q", dbPath)
	}
	// leveldb appends the ".db" extension itself
	path = strings.TrimSuffix(path, filepath.Ext(path))

	cs, err := iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return cs, nil
}
