package pool

import (
	"math"

	"github.com/holiman/uint256"
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
)

// scheduler computes the distribution window and the accumulator of a pool
// state at a given point in time. Any change is applied to the state
// directly, persisting it is left to the caller.
type scheduler struct {
	st          *State
	now         weave.UnixTime
	stakeScale  *uint256.Int
	rewardScale *uint256.Int
}

func newScheduler(st *State, now weave.UnixTime) *scheduler {
	return &scheduler{
		st:          st,
		now:         now,
		stakeScale:  scaleOf(st.StakeDecimals),
		rewardScale: scaleOf(st.RewardDecimals),
	}
}

// duration returns the length of the current distribution window.
func (s *scheduler) duration() uint64 {
	return s.st.StartTime.SecondsUntil(s.st.EndTime)
}

// remainingSeconds returns the time left until the end of the current
// distribution window.
func (s *scheduler) remainingSeconds() uint64 {
	rem := s.now.SecondsUntil(s.st.EndTime)
	if d := s.duration(); rem > d {
		return d
	}
	return rem
}

// remainingRewards returns the part of the distributed amount that is
// scheduled for the rest of the window.
func (s *scheduler) remainingRewards() (*uint256.Int, error) {
	d := s.duration()
	if d == 0 {
		return new(uint256.Int), nil
	}
	left, err := mul(s.st.RewardsAmount.Int(), secs(s.remainingSeconds()))
	if err != nil {
		return nil, err
	}
	return div(left, secs(d)), nil
}

// rewardsPerToken returns the accumulator value as of now.
func (s *scheduler) rewardsPerToken() (*uint256.Int, error) {
	stored := s.st.Accumulator.Int()
	staked := s.st.StakedTotal.Int()
	d := s.duration()
	if staked.IsZero() || d == 0 {
		return stored, nil
	}

	rewards := s.st.RewardsAmount.Int()
	total, err := mul(rewards, secs(d))
	if err != nil {
		return nil, err
	}
	left, err := mul(rewards, secs(s.remainingSeconds()))
	if err != nil {
		return nil, err
	}
	if left.Gt(total) {
		return stored, nil
	}
	distributed, err := mulAll(new(uint256.Int).Sub(total, left), s.rewardScale, precision)
	if err != nil {
		return nil, err
	}
	denominator, err := mulAll(staked, s.stakeScale, secs(d))
	if err != nil {
		return nil, err
	}
	return add(stored, div(distributed, denominator))
}

// restart closes the current window at now and starts a new one with
// whatever was not distributed yet. Without stake nothing is distributed
// and the whole window is moved to start now.
func (s *scheduler) restart() error {
	acc, err := s.rewardsPerToken()
	if err != nil {
		return errors.Wrap(err, "rewards per token")
	}
	if acc.Lt(s.st.Accumulator.Int()) {
		return errors.Wrapf(ErrInvariant, "accumulator regressed from %s to %s", s.st.Accumulator, acc.Dec())
	}

	if s.st.StakedTotal.IsZero() {
		d := s.duration()
		s.st.StartTime = s.now
		s.st.EndTime = s.now.AddSeconds(d)
	} else {
		left, err := s.remainingRewards()
		if err != nil {
			return errors.Wrap(err, "remaining rewards")
		}
		rem := s.remainingSeconds()
		s.st.RewardsAmount = coin.AmountOf(left)
		s.st.StartTime = s.now
		s.st.EndTime = s.now.AddSeconds(rem)
	}
	s.st.Accumulator = coin.AmountOf(acc)
	return nil
}

// checkWindow returns ErrOverflow if a distribution of given amount and
// duration could overflow the accumulator computation, or the accumulator
// itself once the whole amount is distributed to the smallest possible
// stake of one unit.
func (s *scheduler) checkWindow(rewards *uint256.Int, d uint64) error {
	if _, err := mulAll(rewards, secs(d), s.rewardScale, precision); err != nil {
		return errors.Wrapf(err, "distribution of %s over %d seconds", rewards.Dec(), d)
	}
	if _, err := mulAll(s.st.StakedTotal.Int(), s.stakeScale, secs(d)); err != nil {
		return errors.Wrapf(err, "stake of %s over %d seconds", s.st.StakedTotal, d)
	}
	increase, err := mulAll(rewards, s.rewardScale, precision)
	if err != nil {
		return errors.Wrapf(err, "distribution of %s", rewards.Dec())
	}
	if _, err := add(s.st.Accumulator.Int(), div(increase, s.stakeScale)); err != nil {
		return errors.Wrapf(err, "accumulator after distributing %s", rewards.Dec())
	}
	return nil
}

// checkStake returns ErrOverflow if given total stake could overflow the
// accumulator computation for the current window.
func (s *scheduler) checkStake(staked *uint256.Int) error {
	d := s.duration()
	if d == 0 {
		d = 1
	}
	if _, err := mulAll(staked, s.stakeScale, secs(d)); err != nil {
		return errors.Wrapf(err, "stake of %s", staked.Dec())
	}
	return nil
}

// maxAmount returns the greatest reward amount that can be distributed
// over given duration.
func (s *scheduler) maxAmount(d uint64) *uint256.Int {
	if d == 0 {
		d = 1
	}
	// Cannot overflow: both scales are at most 1e18.
	unit := new(uint256.Int).Mul(s.rewardScale, precision)
	byWindow := div(div(new(uint256.Int).SetAllOne(), unit), secs(d))

	// Keep the accumulator within range for a stake of one unit. The
	// product fits: the quotient is at most 2^256 / 1e18.
	headroom := new(uint256.Int).Sub(new(uint256.Int).SetAllOne(), s.st.Accumulator.Int())
	byAccumulator := new(uint256.Int).Mul(div(headroom, unit), s.stakeScale)
	if byAccumulator.Lt(byWindow) {
		return byAccumulator
	}
	return byWindow
}

// maxDuration returns the longest window over which given reward amount
// can be distributed.
func (s *scheduler) maxDuration(rewards *uint256.Int) uint64 {
	if rewards.IsZero() {
		rewards = uint256.NewInt(1)
	}
	unit := new(uint256.Int).Mul(s.rewardScale, precision)
	max := div(div(new(uint256.Int).SetAllOne(), unit), rewards)
	limit := uint64(math.MaxInt64 - int64(s.now))
	if !max.IsUint64() || max.Uint64() > limit {
		return limit
	}
	return max.Uint64()
}

// endAfter returns the time d seconds from now.
func (s *scheduler) endAfter(d uint64) (weave.UnixTime, error) {
	if d > uint64(math.MaxInt64-int64(s.now)) {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d seconds from %d", d, s.now)
	}
	return s.now.AddSeconds(d), nil
}
