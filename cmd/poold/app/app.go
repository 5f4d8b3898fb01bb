/*
Package app assembles the poold application: the cash gateway, signature
checks and the staking pool behind one decorator chain.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/app"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/orm"
	"github.com/iov-one/stakeweave/store/iavl"
	"github.com/iov-one/stakeweave/x"
	"github.com/iov-one/stakeweave/x/cash"
	"github.com/iov-one/stakeweave/x/pool"
	"github.com/iov-one/stakeweave/x/sigs"
	"github.com/iov-one/stakeweave/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenerateApp opens the pool database under home and returns the
// application ready to be served. An empty home keeps all state in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	kv, err := openStore(home)
	if err != nil {
		return nil, err
	}
	store := app.NewStoreApp("poold", kv, queries(), context.Background())
	store.WithInit(Initializers()).WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, handler(), debug), nil
}

// Initializers loads genesis. Tokens are registered before the pool looks
// up its currencies.
func Initializers() weave.Initializer {
	return app.ChainInitializers(cash.Initializer{}, pool.Initializer{})
}

func handler() weave.Handler {
	auth := x.ChainAuth(sigs.Authenticate{})
	gateway := cash.NewController()

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, gateway)
	sigs.RegisterRoutes(r, auth)
	pool.RegisterRoutes(r, auth, gateway)

	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// A rejected check leaves the mempool state untouched.
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// The nonce is bumped even when the message fails.
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)
}

func queries() weave.QueryRouter {
	qr := weave.NewQueryRouter()
	qr.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		pool.RegisterQuery,
		orm.RegisterQuery,
	)
	return qr
}

func openStore(home string) (weave.CommitKVStore, error) {
	if home == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(filepath.Join(home, "pool.db"))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path: %s", err)
	}
	// leveldb appends its own extension.
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
