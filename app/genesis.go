package app

import (
	"encoding/json"
	"io/ioutil"
	"time"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// Genesis is the part of a tendermint genesis file read by the application.
type Genesis struct {
	ChainID     string        `json:"chain_id"`
	GenesisTime time.Time     `json:"genesis_time"`
	AppOptions  weave.Options `json:"app_state"`
}

// Params returns what initializers receive next to the options.
func (g Genesis) Params() weave.GenesisParams {
	var p weave.GenesisParams
	if !g.GenesisTime.IsZero() {
		p.Time = weave.AsUnixTime(g.GenesisTime)
	}
	return p
}

func LoadGenesis(path string) (Genesis, error) {
	var g Genesis
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return g, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return g, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return g, nil
}

// ChainInitializers runs every initializer in order and stops at the first
// failure.
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return initializers(inits)
}

type initializers []weave.Initializer

func (all initializers) FromGenesis(opts weave.Options, params weave.GenesisParams, db weave.KVStore) error {
	for _, ini := range all {
		if err := ini.FromGenesis(opts, params, db); err != nil {
			return err
		}
	}
	return nil
}
