package pool

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/gconf"
	"github.com/iov-one/stakeweave/x/cash"
)

// GenesisPool declares the currencies of the pool. Both must be registered
// as cash tokens.
type GenesisPool struct {
	StakeTicker  string `json:"stake_ticker"`
	RewardTicker string `json:"reward_ticker"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file. It must run after the cash initializer.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis stores the initial pool state and the pool configuration.
func (Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, kv weave.KVStore) error {
	var gen GenesisPool
	if err := opts.ReadOptions("pool", &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if gen.StakeTicker == "" && gen.RewardTicker == "" {
		return nil
	}

	tokens := cash.NewController()
	stake, err := tokens.Token(kv, gen.StakeTicker)
	if err != nil {
		return errors.Wrap(err, "stake token")
	}
	reward, err := tokens.Token(kv, gen.RewardTicker)
	if err != nil {
		return errors.Wrap(err, "reward token")
	}
	st := State{
		Metadata:       &weave.Metadata{Schema: 1},
		StakeTicker:    stake.Ticker,
		StakeDecimals:  stake.Decimals,
		RewardTicker:   reward.Ticker,
		RewardDecimals: reward.Decimals,
	}
	if err := NewStateBucket().Put(kv, stateKey, &st); err != nil {
		return errors.Wrap(err, "save pool state")
	}
	if err := gconf.InitConfig(kv, opts, packageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
