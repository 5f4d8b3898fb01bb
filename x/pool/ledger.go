package pool

import (
	"github.com/holiman/uint256"
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
)

// pending returns the reward collected by the record as of given
// accumulator value.
func (s *scheduler) pending(r *StakeRecord, acc *uint256.Int) (*uint256.Int, error) {
	last := r.LastAccumulator.Int()
	if acc.Lt(last) {
		return nil, errors.Wrapf(ErrInvariant, "accumulator %s behind record %s", acc.Dec(), r.LastAccumulator)
	}
	scaled, err := mul(r.Amount.Int(), s.stakeScale)
	if err != nil {
		return nil, err
	}
	// Cannot overflow: both factors are at most 1e18.
	unit := new(uint256.Int).Mul(precision, s.rewardScale)
	accrued, err := mulDiv(new(uint256.Int).Sub(acc, last), scaled, unit)
	if err != nil {
		return nil, err
	}
	return add(r.Earned.Int(), accrued)
}

// earn moves everything collected by the record into its earned balance.
// Calling earn again without the accumulator moving is a noop.
func (s *scheduler) earn(r *StakeRecord) error {
	acc, err := s.rewardsPerToken()
	if err != nil {
		return err
	}
	earned, err := s.pending(r, acc)
	if err != nil {
		return err
	}
	r.Earned = coin.AmountOf(earned)
	r.LastAccumulator = coin.AmountOf(acc)
	return nil
}

func (c Controller) stakeRecord(db weave.ReadOnlyKVStore, holder weave.Address) (*StakeRecord, error) {
	var r StakeRecord
	switch err := c.stakes.One(db, holder, &r); {
	case err == nil:
		return &r, nil
	case errors.ErrNotFound.Is(err):
		return &StakeRecord{
			Metadata: &weave.Metadata{Schema: 1},
			Holder:   holder,
		}, nil
	default:
		return nil, errors.Wrap(err, "load stake")
	}
}
