package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and handshakes.
//
// It should be embedded in another struct for CheckTx,
// DeliverTx and initializing state from the genesis.
//
// Errors on ABCI steps that do not take user input (Info, InitChain,
// BeginBlock, Commit) cannot be reported back to tendermint and are
// handled as panics.
type StoreApp struct {
	logger log.Logger

	// name is what is returned from abci.Info
	name string

	store *CommitStore

	initializer htlc.Initializer
	queryRouter htlc.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in parseAppState
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext htlc.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, header), reset on BeginBlock
	blockContext htlc.Context

	// height is the last block height seen, it never decreases
	height int64

	debug bool
}

// NewStoreApp initializes this app into a ready state with some defaults.
//
// Panics if unable to properly load the state from the given store.
func NewStoreApp(name string, store htlc.CommitKVStore,
	queryRouter htlc.QueryRouter, baseContext htlc.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	s.chainID = chainID
	if s.chainID != "" {
		s.baseContext = htlc.WithChainID(s.baseContext, s.chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.height = info.Version
	s.blockContext = htlc.WithHeight(s.baseContext, s.height)
	return s
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init htlc.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug makes error responses carry the full error information.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization.
//
// Also sets the baseContext logger.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = htlc.WithLogger(s.baseContext, logger)
	if s.blockContext != nil {
		s.blockContext = htlc.WithLogger(s.blockContext, logger)
	}
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() htlc.Context {
	return s.blockContext
}

// DeliverStore returns the current DeliverTx cache for methods
func (s *StoreApp) DeliverStore() htlc.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache for methods
func (s *StoreApp) CheckStore() htlc.CacheableKVStore {
	return s.store.CheckStore()
}

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "app state already loaded for chain %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json")
	}

	var appState htlc.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = htlc.WithChainID(s.baseContext, chainID)
	s.blockContext = htlc.WithChainID(s.blockContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(appState, s.DeliverStore())
}

//----------------------- ABCI ---------------------

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name and version.
//
// The height is the block that holds the transactions, not the apphash itself.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}

	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		Version:          htlc.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not implemented"}
}

/*
Query gets data from the committed app store.
A query request has the following elements:
* Path - the type of query
* Data - what to query, interpreted based on Path

Path is "/<bucket>" or "/<bucket>/<index>" and may be followed by "?prefix"
to make a prefix query.

Key and Value in Results are always serialized ResultSet
objects, able to support 0 to N values. They have the
same size.

Query handlers get a context carrying the last committed height.
*/
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(reqQuery.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		err := errors.Wrapf(errors.ErrNotFound, "unexpected query path: %s", reqQuery.Path)
		return htlc.QueryError(err, s.debug)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return htlc.QueryError(err, s.debug)
	}
	ctx := htlc.WithHeight(s.baseContext, info.Version)
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := qh.Query(ctx, db, mod, reqQuery.Data)
	if err != nil {
		return htlc.QueryError(err, s.debug)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return htlc.QueryError(err, s.debug)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return htlc.QueryError(err, s.debug)
	}
	return res
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

// Commit implements abci.Application
func (s *StoreApp) Commit() abci.ResponseCommit {
	commitID, err := s.store.Commit()
	if err != nil {
		panic(err)
	}

	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}

// InitChain implements ABCI. The app_state of the genesis file is passed
// to the initializer.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	s.logger.Info("Genesis loaded", "chain_id", req.ChainId)
	return abci.ResponseInitChain{}
}

// BeginBlock implements ABCI. It sets up the block context. Block height is
// the application clock and must never go backwards.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	height := req.Header.GetHeight()
	if height < s.height {
		panic(errors.Wrapf(errors.ErrState, "block height %d lower than %d", height, s.height))
	}
	s.height = height

	ctx := htlc.WithHeader(s.baseContext, req.Header)
	ctx = htlc.WithHeight(ctx, height)
	s.blockContext = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock implements ABCI. Validator set is never updated.
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
