package app

import (
	"encoding/json"
	"fmt"
	"strings"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related half of abci.Application: info,
// genesis, block boundaries, commit and queries. BaseApp adds transaction
// processing on top.
//
// Failures in InitChain and Commit panic. Tendermint gives these calls no
// way to report an error and the node must not continue with a broken
// state.
type StoreApp struct {
	name   string
	logger log.Logger
	store  *CommitStore
	init   weave.Initializer
	router weave.QueryRouter

	// chainID is empty until the genesis is loaded, then read from the
	// store on every restart.
	chainID string

	// baseCtx lives as long as the application, blockCtx is replaced on
	// every BeginBlock.
	baseCtx  weave.Context
	blockCtx weave.Context
}

// NewStoreApp loads the latest version of kv. It panics if kv cannot be
// loaded.
func NewStoreApp(name string, kv weave.CommitKVStore, router weave.QueryRouter, ctx weave.Context) *StoreApp {
	s := &StoreApp{
		name:    name,
		store:   NewCommitStore(kv),
		router:  router,
		baseCtx: ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if id := loadChainID(s.DeliverStore()); id != "" {
		s.chainID = id
		s.baseCtx = weave.WithChainID(s.baseCtx, id)
	}
	height, _ := s.store.CommitInfo()
	s.blockCtx = weave.WithHeight(s.baseCtx, height)
	return s
}

// WithInit sets the initializer called by InitChain.
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.init = init
	return s
}

func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseCtx = weave.WithLogger(s.baseCtx, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext carries the header, height and time of the current block.
func (s *StoreApp) BlockContext() weave.Context {
	return s.blockCtx
}

func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	height, hash := s.store.CommitInfo()
	s.logger.Info("info", "height", height, "hash", fmt.Sprintf("%X", hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          weave.Version(),
		LastBlockHeight:  height,
		LastBlockAppHash: hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// InitChain stores the chain id and runs the initializer over the
// app_state of the genesis file.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req); err != nil {
		panic(err)
	}
	saveBlockTime(s.DeliverStore(), req.Time)
	return abci.ResponseInitChain{}
}

func (s *StoreApp) loadGenesis(req abci.RequestInitChain) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for %s", s.chainID)
	}
	if len(req.AppStateBytes) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state missing from genesis")
	}
	var opts weave.Options
	if err := json.Unmarshal(req.AppStateBytes, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}
	if err := saveChainID(s.DeliverStore(), req.ChainId); err != nil {
		return err
	}
	s.chainID = req.ChainId
	s.baseCtx = weave.WithChainID(s.baseCtx, req.ChainId)

	if s.init == nil {
		return nil
	}
	params := weave.GenesisParams{Time: weave.AsUnixTime(req.Time)}
	return s.init.FromGenesis(opts, params, s.DeliverStore())
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	h := req.Header
	ctx := weave.WithHeader(s.baseCtx, h)
	ctx = weave.WithHeight(ctx, h.Height)
	ctx = weave.WithBlockTime(ctx, h.Time)
	s.blockCtx = ctx
	saveBlockTime(s.DeliverStore(), h.Time)
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id := s.store.Commit()
	s.logger.Debug("commit", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query runs a registered query handler against the last committed state.
//
// The path selects the handler and may end with ?prefix to turn a key
// lookup into a prefix scan. Key and Value of the response are both
// serialized ResultSets of equal length. Only the latest height can be
// queried. The context holds the height and the time of the last block so
// that time dependent values, such as pending rewards, are computed as of
// that block.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	qh := s.router.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	if req.Height != 0 {
		return queryError(errors.Wrap(errors.ErrInput, "historical queries are not supported"))
	}

	height, _ := s.store.CommitInfo()
	db := s.store.Committed()
	ctx := weave.WithHeight(s.baseCtx, height)
	if t, ok := loadBlockTime(db); ok {
		ctx = weave.WithBlockTime(ctx, t)
	}

	models, err := qh.Query(ctx, db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: height, Key: keys, Value: values}
}

// splitPath separates the query modifier following "?".
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
