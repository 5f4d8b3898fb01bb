package pool

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/gconf"
)

// RegisterQuery registers pool buckets and the computed pool queries.
func RegisterQuery(qr weave.QueryRouter) {
	NewStateBucket().Register("pool/state", qr)
	NewStakeBucket().Register("pool/stakes", qr)
	qr.Register("/pool/config", weave.QueryHandlerFunc(queryConfig))
	qr.Register("/pool/pending", weave.QueryHandlerFunc(queryPending))
	qr.Register("/pool/remaining", weave.QueryHandlerFunc(queryRemaining))
	qr.Register("/pool/limits", weave.QueryHandlerFunc(queryLimits))
}

// Pending is the reward a holder could claim at the queried time.
type Pending struct {
	Metadata *weave.Metadata `json:"metadata"`
	Holder   weave.Address   `json:"holder"`
	Staked   coin.Coin       `json:"staked"`
	Rewards  coin.Coin       `json:"rewards"`
}

func (p *Pending) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(p) }
func (p *Pending) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, p) }

// Remaining describes the part of the distribution window that is still
// ahead.
type Remaining struct {
	Metadata *weave.Metadata `json:"metadata"`
	Seconds  uint64          `json:"seconds"`
	Rewards  coin.Coin       `json:"rewards"`
	EndTime  weave.UnixTime  `json:"end_time"`
}

func (r *Remaining) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(r) }
func (r *Remaining) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, r) }

// Limits are the greatest reward amount the current window can take and
// the longest window the current rewards can be spread over.
type Limits struct {
	Metadata    *weave.Metadata `json:"metadata"`
	MaxAmount   coin.Coin       `json:"max_amount"`
	MaxDuration uint64          `json:"max_duration"`
}

func (l *Limits) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(l) }
func (l *Limits) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, l) }

type marshaler interface {
	Marshal() ([]byte, error)
}

func single(key []byte, m marshaler) ([]weave.Model, error) {
	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}
	return []weave.Model{weave.Pair(key, raw)}, nil
}

func queryConfig(ctx weave.Context, db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	key := gconf.Key(packageName)
	raw := db.Get(key)
	if raw == nil {
		return nil, nil
	}
	return []weave.Model{weave.Pair(key, raw)}, nil
}

// projected returns a scheduler with the pool state moved to the block
// time of the context. Nothing is persisted.
func projected(ctx weave.Context, db weave.ReadOnlyKVStore) (*scheduler, error) {
	st, err := NewController(nil).State(db)
	if err != nil {
		return nil, err
	}
	now, err := weave.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	s := newScheduler(st, now)
	if err := s.restart(); err != nil {
		return nil, err
	}
	return s, nil
}

func queryPending(ctx weave.Context, db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	holder := weave.Address(data)
	if err := holder.Validate(); err != nil {
		return nil, errors.Wrap(err, "holder")
	}
	var rec StakeRecord
	switch err := NewStakeBucket().One(db, holder, &rec); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	s, err := projected(ctx, db)
	if err != nil {
		return nil, err
	}
	rewards, err := s.pending(&rec, s.st.Accumulator.Int())
	if err != nil {
		return nil, err
	}
	return single(holder, &Pending{
		Metadata: &weave.Metadata{Schema: 1},
		Holder:   holder,
		Staked:   coin.Coin{Ticker: s.st.StakeTicker, Amount: rec.Amount},
		Rewards:  coin.Coin{Ticker: s.st.RewardTicker, Amount: coin.AmountOf(rewards)},
	})
}

func queryRemaining(ctx weave.Context, db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	s, err := projected(ctx, db)
	if err != nil {
		return nil, err
	}
	return single([]byte("remaining"), &Remaining{
		Metadata: &weave.Metadata{Schema: 1},
		Seconds:  s.remainingSeconds(),
		Rewards:  coin.Coin{Ticker: s.st.RewardTicker, Amount: s.st.RewardsAmount},
		EndTime:  s.st.EndTime,
	})
}

func queryLimits(ctx weave.Context, db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	s, err := projected(ctx, db)
	if err != nil {
		return nil, err
	}
	return single([]byte("limits"), &Limits{
		Metadata:    &weave.Metadata{Schema: 1},
		MaxAmount:   coin.Coin{Ticker: s.st.RewardTicker, Amount: coin.AmountOf(s.maxAmount(s.duration()))},
		MaxDuration: s.maxDuration(s.st.RewardsAmount.Int()),
	})
}
