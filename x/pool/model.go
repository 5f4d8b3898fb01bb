package pool

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/gconf"
	"github.com/iov-one/stakeweave/orm"
)

const packageName = "pool"

// ReserveAddress is the wallet that holds all staked and reward funds.
var ReserveAddress = weave.NewCondition(packageName, "reserve", []byte("stake")).Address()

// Configuration is the administrative setup of the pool.
type Configuration struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Owner is the administrator of the pool. Only the owner can manage
	// reward distribution, pause the pool and sweep funds.
	Owner weave.Address `json:"owner"`
	// MaxDuration if not zero limits the length of a distribution window
	// in seconds.
	MaxDuration uint64 `json:"max_duration"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *Configuration) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }

func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	return errs
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// State is the singleton holding the distribution window, the accumulator
// and the aggregated pool totals.
type State struct {
	Metadata *weave.Metadata `json:"metadata"`
	// StakeTicker is the currency deposited by stakers.
	StakeTicker   string `json:"stake_ticker"`
	StakeDecimals uint32 `json:"stake_decimals"`
	// RewardTicker is the currency distributed to stakers.
	RewardTicker   string `json:"reward_ticker"`
	RewardDecimals uint32 `json:"reward_decimals"`
	Paused         bool   `json:"paused"`

	// RewardsAmount is distributed linearly between StartTime and
	// EndTime.
	RewardsAmount coin.Amount    `json:"rewards_amount"`
	StartTime     weave.UnixTime `json:"start_time"`
	EndTime       weave.UnixTime `json:"end_time"`

	// Accumulator is the reward per staked token, in 18 decimal fixed
	// point, collected until StartTime.
	Accumulator coin.Amount `json:"accumulator"`

	// StakedTotal is the sum of all stake records amounts.
	StakedTotal coin.Amount `json:"staked_total"`
	// RewardTotal is the amount of reward currency that was not yet
	// paid out, both distributed and not.
	RewardTotal coin.Amount `json:"reward_total"`
}

var _ orm.Model = (*State)(nil)

func (s *State) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(s) }
func (s *State) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, s) }

func (s *State) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if !coin.IsCC(s.StakeTicker) {
		errs = errors.AppendField(errs, "StakeTicker", errors.ErrCurrency)
	}
	if !coin.IsCC(s.RewardTicker) {
		errs = errors.AppendField(errs, "RewardTicker", errors.ErrCurrency)
	}
	if s.StakeDecimals > coin.MaxDecimals {
		errs = errors.AppendField(errs, "StakeDecimals", errors.ErrInput)
	}
	if s.RewardDecimals > coin.MaxDecimals {
		errs = errors.AppendField(errs, "RewardDecimals", errors.ErrInput)
	}
	if s.EndTime < s.StartTime {
		errs = errors.AppendField(errs, "EndTime", errors.Wrap(errors.ErrState, "before start time"))
	}
	errs = errors.AppendField(errs, "RewardsAmount", s.RewardsAmount.Validate())
	errs = errors.AppendField(errs, "Accumulator", s.Accumulator.Validate())
	errs = errors.AppendField(errs, "StakedTotal", s.StakedTotal.Validate())
	errs = errors.AppendField(errs, "RewardTotal", s.RewardTotal.Validate())
	return errs
}

func (s *State) Copy() orm.CloneableData {
	cpy := *s
	cpy.Metadata = s.Metadata.Copy()
	cpy.RewardsAmount = append(coin.Amount(nil), s.RewardsAmount...)
	cpy.Accumulator = append(coin.Amount(nil), s.Accumulator...)
	cpy.StakedTotal = append(coin.Amount(nil), s.StakedTotal...)
	cpy.RewardTotal = append(coin.Amount(nil), s.RewardTotal...)
	return &cpy
}

var stateKey = []byte("state")

// NewStateBucket returns the bucket holding the pool state singleton.
func NewStateBucket() orm.ModelBucket {
	return orm.NewModelBucket("poolstate", &State{})
}

// StakeRecord is the stake of a single holder. A record is created with the
// first stake and is never deleted.
type StakeRecord struct {
	Metadata *weave.Metadata `json:"metadata"`
	Holder   weave.Address   `json:"holder"`
	Amount   coin.Amount     `json:"amount"`
	// Earned is the reward collected until the LastAccumulator was
	// observed and not yet claimed.
	Earned          coin.Amount `json:"earned"`
	LastAccumulator coin.Amount `json:"last_accumulator"`
}

var _ orm.Model = (*StakeRecord)(nil)

func (r *StakeRecord) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(r) }
func (r *StakeRecord) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, r) }

func (r *StakeRecord) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "Holder", r.Holder.Validate())
	errs = errors.AppendField(errs, "Amount", r.Amount.Validate())
	errs = errors.AppendField(errs, "Earned", r.Earned.Validate())
	errs = errors.AppendField(errs, "LastAccumulator", r.LastAccumulator.Validate())
	return errs
}

func (r *StakeRecord) Copy() orm.CloneableData {
	return &StakeRecord{
		Metadata:        r.Metadata.Copy(),
		Holder:          append(weave.Address(nil), r.Holder...),
		Amount:          append(coin.Amount(nil), r.Amount...),
		Earned:          append(coin.Amount(nil), r.Earned...),
		LastAccumulator: append(coin.Amount(nil), r.LastAccumulator...),
	}
}

// NewStakeBucket returns the bucket of stake records, keyed by the holder
// address.
func NewStakeBucket() orm.ModelBucket {
	return orm.NewModelBucket("stake", &StakeRecord{})
}
