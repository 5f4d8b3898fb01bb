package server

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/app"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/store"
)

// ValidateGenesis runs the initializer over each genesis file and returns
// the first failure. Nothing is persisted.
func ValidateGenesis(ini weave.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrInput, "usage: validate <genesis file> [<genesis file>...]")
	}
	for _, path := range genesisPaths {
		gen, err := app.LoadGenesis(path)
		if err != nil {
			return errors.Wrap(err, path)
		}
		if gen.AppOptions == nil {
			return errors.Wrapf(errors.ErrEmpty, "%s: app_state", path)
		}
		if err := ini.FromGenesis(gen.AppOptions, gen.Params(), store.MemStore()); err != nil {
			return errors.Wrapf(err, "%s: cannot initialize", path)
		}
	}
	return nil
}
