package pool

import (
	"github.com/holiman/uint256"
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/orm"
)

// Gateway moves funds in and out of the pool reserve.
type Gateway interface {
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error)
	MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error
	MoveFrom(db weave.KVStore, spender, owner, dest weave.Address, amount coin.Coin) error
}

// Controller implements all pool operations. Each operation reads the
// block time once, updates the accumulator until that time and only then
// applies the requested change.
//
// Controller does not authorize callers. This is done by the handlers.
type Controller struct {
	gateway Gateway
	state   orm.ModelBucket
	stakes  orm.ModelBucket
}

// NewController returns a controller that uses given gateway to move funds.
func NewController(g Gateway) Controller {
	return Controller{
		gateway: g,
		state:   NewStateBucket(),
		stakes:  NewStakeBucket(),
	}
}

// State returns the current pool state.
func (c Controller) State(db weave.ReadOnlyKVStore) (*State, error) {
	var st State
	if err := c.state.One(db, stateKey, &st); err != nil {
		return nil, errors.Wrap(err, "load pool state")
	}
	return &st, nil
}

// begin loads the state and prepares a scheduler at the block time.
func (c Controller) begin(ctx weave.Context, db weave.ReadOnlyKVStore) (*scheduler, error) {
	now, err := weave.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	st, err := c.State(db)
	if err != nil {
		return nil, err
	}
	return newScheduler(st, now), nil
}

// commit saves the state and verifies that the reserve covers it.
func (c Controller) commit(ctx weave.Context, db weave.KVStore, st *State) error {
	if err := c.state.Put(db, stateKey, st); err != nil {
		return errors.Wrap(err, "save pool state")
	}
	return c.checkInvariants(ctx, db, st)
}

// Stake pulls amount of the stake currency from the holder wallet. The
// holder must have approved the reserve to move that amount.
func (c Controller) Stake(ctx weave.Context, db weave.KVStore, holder weave.Address, amount coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "stake must be greater than zero")
	}
	s, err := c.begin(ctx, db)
	if err != nil {
		return err
	}
	if s.st.Paused {
		return errors.Wrap(ErrPaused, "cannot stake")
	}
	staked, err := add(s.st.StakedTotal.Int(), amount.Int())
	if err != nil {
		return err
	}
	if err := s.checkStake(staked); err != nil {
		return err
	}
	if err := s.restart(); err != nil {
		return err
	}
	rec, err := c.stakeRecord(db, holder)
	if err != nil {
		return err
	}
	if err := s.earn(rec); err != nil {
		return err
	}
	if rec.Amount, err = rec.Amount.Add(amount); err != nil {
		return err
	}
	s.st.StakedTotal = coin.AmountOf(staked)

	pull := coin.Coin{Ticker: s.st.StakeTicker, Amount: amount}
	if err := c.gateway.MoveFrom(db, ReserveAddress, holder, ReserveAddress, pull); err != nil {
		return errors.Wrap(err, "pull stake")
	}
	if err := c.stakes.Put(db, holder, rec); err != nil {
		return errors.Wrap(err, "save stake")
	}
	return c.commit(ctx, db, s.st)
}

// Unstake returns amount of the stake to the holder. Collected rewards
// stay in the record until claimed.
func (c Controller) Unstake(ctx weave.Context, db weave.KVStore, holder weave.Address, amount coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "unstake must be greater than zero")
	}
	s, err := c.begin(ctx, db)
	if err != nil {
		return err
	}
	if s.st.Paused {
		return errors.Wrap(ErrPaused, "cannot unstake")
	}
	rec, err := c.stakeRecord(db, holder)
	if err != nil {
		return err
	}
	if rec.Amount.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientStake, "available %s, requested %s", rec.Amount, amount)
	}
	if err := s.restart(); err != nil {
		return err
	}
	if err := s.earn(rec); err != nil {
		return err
	}
	left, err := sub(rec.Amount.Int(), amount.Int())
	if err != nil {
		return err
	}
	rec.Amount = coin.AmountOf(left)
	staked, err := sub(s.st.StakedTotal.Int(), amount.Int())
	if err != nil {
		return err
	}
	s.st.StakedTotal = coin.AmountOf(staked)

	push := coin.Coin{Ticker: s.st.StakeTicker, Amount: amount}
	if err := c.gateway.MoveCoins(db, ReserveAddress, holder, push); err != nil {
		return errors.Wrap(err, "return stake")
	}
	if err := c.stakes.Put(db, holder, rec); err != nil {
		return errors.Wrap(err, "save stake")
	}
	return c.commit(ctx, db, s.st)
}

// Claim pays out all rewards collected by the holder and returns the paid
// amount. Claiming nothing is allowed and moves no funds.
func (c Controller) Claim(ctx weave.Context, db weave.KVStore, holder weave.Address) (coin.Amount, error) {
	s, err := c.begin(ctx, db)
	if err != nil {
		return nil, err
	}
	if s.st.Paused {
		return nil, errors.Wrap(ErrPaused, "cannot claim")
	}
	// Nothing was ever staked so nothing can be claimed.
	if err := c.stakes.Has(db, holder); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil
		}
		return nil, err
	}
	rec, err := c.stakeRecord(db, holder)
	if err != nil {
		return nil, err
	}
	// The window is not restarted, earn reads the accumulator as of now.
	if err := s.earn(rec); err != nil {
		return nil, err
	}
	paid := rec.Earned
	rec.Earned = nil
	left, err := sub(s.st.RewardTotal.Int(), paid.Int())
	if err != nil {
		return nil, err
	}
	s.st.RewardTotal = coin.AmountOf(left)

	if !paid.IsZero() {
		push := coin.Coin{Ticker: s.st.RewardTicker, Amount: paid}
		if err := c.gateway.MoveCoins(db, ReserveAddress, holder, push); err != nil {
			return nil, errors.Wrap(err, "pay rewards")
		}
	}
	if err := c.stakes.Put(db, holder, rec); err != nil {
		return nil, errors.Wrap(err, "save stake")
	}
	if err := c.commit(ctx, db, s.st); err != nil {
		return nil, err
	}
	return paid, nil
}

// EmergencyWithdraw returns the whole stake of the holder, giving up all
// collected rewards. It is allowed when the pool is paused. Forfeited
// rewards are no longer accounted for and can be swept.
func (c Controller) EmergencyWithdraw(ctx weave.Context, db weave.KVStore, holder weave.Address) (returned, forfeited coin.Amount, err error) {
	s, err := c.begin(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	if err := c.stakes.Has(db, holder); err != nil {
		return nil, nil, errors.Wrap(err, "no stake")
	}
	rec, err := c.stakeRecord(db, holder)
	if err != nil {
		return nil, nil, err
	}
	if err := s.restart(); err != nil {
		return nil, nil, err
	}
	if err := s.earn(rec); err != nil {
		return nil, nil, err
	}
	returned, forfeited = rec.Amount, rec.Earned

	staked, err := sub(s.st.StakedTotal.Int(), returned.Int())
	if err != nil {
		return nil, nil, err
	}
	s.st.StakedTotal = coin.AmountOf(staked)
	rewards, err := sub(s.st.RewardTotal.Int(), forfeited.Int())
	if err != nil {
		return nil, nil, err
	}
	s.st.RewardTotal = coin.AmountOf(rewards)
	rec.Amount = nil
	rec.Earned = nil

	if !returned.IsZero() {
		push := coin.Coin{Ticker: s.st.StakeTicker, Amount: returned}
		if err := c.gateway.MoveCoins(db, ReserveAddress, holder, push); err != nil {
			return nil, nil, errors.Wrap(err, "return stake")
		}
	}
	if err := c.stakes.Put(db, holder, rec); err != nil {
		return nil, nil, errors.Wrap(err, "save stake")
	}
	if err := c.commit(ctx, db, s.st); err != nil {
		return nil, nil, err
	}
	return returned, forfeited, nil
}

// AddRewards pulls amount of the reward currency from the funder and adds
// it to the distribution, extending the window by given number of seconds.
// The funder must have approved the reserve to move that amount.
func (c Controller) AddRewards(ctx weave.Context, db weave.KVStore, funder weave.Address, amount coin.Amount, duration uint64) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "rewards must be greater than zero")
	}
	s, err := c.begin(ctx, db)
	if err != nil {
		return err
	}
	if err := s.restart(); err != nil {
		return err
	}
	rewards, err := add(s.st.RewardsAmount.Int(), amount.Int())
	if err != nil {
		return err
	}
	d := s.duration()
	if d+duration < d {
		return errors.Wrap(errors.ErrOverflow, "duration")
	}
	d += duration
	end, err := c.window(db, s, rewards, d)
	if err != nil {
		return err
	}
	total, err := add(s.st.RewardTotal.Int(), amount.Int())
	if err != nil {
		return err
	}
	s.st.RewardsAmount = coin.AmountOf(rewards)
	s.st.EndTime = end
	s.st.RewardTotal = coin.AmountOf(total)

	pull := coin.Coin{Ticker: s.st.RewardTicker, Amount: amount}
	if err := c.gateway.MoveFrom(db, ReserveAddress, funder, ReserveAddress, pull); err != nil {
		return errors.Wrap(err, "pull rewards")
	}
	return c.commit(ctx, db, s.st)
}

// RemoveRewards cancels the distribution and sends everything that was not
// distributed yet to the destination. The withdrawn amount is returned.
func (c Controller) RemoveRewards(ctx weave.Context, db weave.KVStore, dest weave.Address) (coin.Amount, error) {
	s, err := c.begin(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := s.restart(); err != nil {
		return nil, err
	}
	withdrawn := s.st.RewardsAmount
	total, err := sub(s.st.RewardTotal.Int(), withdrawn.Int())
	if err != nil {
		return nil, err
	}
	s.st.RewardTotal = coin.AmountOf(total)
	s.st.RewardsAmount = nil
	s.st.StartTime = s.now
	s.st.EndTime = s.now

	if !withdrawn.IsZero() {
		push := coin.Coin{Ticker: s.st.RewardTicker, Amount: withdrawn}
		if err := c.gateway.MoveCoins(db, ReserveAddress, dest, push); err != nil {
			return nil, errors.Wrap(err, "withdraw rewards")
		}
	}
	if err := c.commit(ctx, db, s.st); err != nil {
		return nil, err
	}
	return withdrawn, nil
}

// SetDurationTo changes the end of the distribution to be duration seconds
// from now. The amount left is spread over the new window.
func (c Controller) SetDurationTo(ctx weave.Context, db weave.KVStore, duration uint64) error {
	s, err := c.begin(ctx, db)
	if err != nil {
		return err
	}
	return c.setEnd(ctx, db, s, duration)
}

// SetDurationUntil changes the end of the distribution to given time, which
// cannot be in the past.
func (c Controller) SetDurationUntil(ctx weave.Context, db weave.KVStore, until weave.UnixTime) error {
	s, err := c.begin(ctx, db)
	if err != nil {
		return err
	}
	if until < s.now {
		return errors.Wrapf(errors.ErrInput, "end time %d is in the past", until)
	}
	return c.setEnd(ctx, db, s, s.now.SecondsUntil(until))
}

func (c Controller) setEnd(ctx weave.Context, db weave.KVStore, s *scheduler, duration uint64) error {
	if err := s.restart(); err != nil {
		return err
	}
	end, err := c.window(db, s, s.st.RewardsAmount.Int(), duration)
	if err != nil {
		return err
	}
	s.st.EndTime = end
	return c.commit(ctx, db, s.st)
}

// window validates a distribution of given rewards over duration seconds
// starting now and returns its end time.
func (c Controller) window(db weave.ReadOnlyKVStore, s *scheduler, rewards *uint256.Int, duration uint64) (weave.UnixTime, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	if conf.MaxDuration != 0 && duration > conf.MaxDuration {
		return 0, errors.Wrapf(errors.ErrInput, "duration %d exceeds maximum of %d seconds", duration, conf.MaxDuration)
	}
	// An empty window never distributes, rewards would be stuck.
	if duration == 0 && !rewards.IsZero() {
		return 0, errors.Wrap(errors.ErrInput, "rewards require a non empty distribution window")
	}
	if err := s.checkWindow(rewards, duration); err != nil {
		return 0, err
	}
	return s.endAfter(duration)
}

// Sweep sends the excess of given currency held by the reserve to the
// destination and returns the moved amount. For the stake and the reward
// currency only what is not accounted for by the pool can be swept.
func (c Controller) Sweep(ctx weave.Context, db weave.KVStore, ticker string, dest weave.Address) (coin.Amount, error) {
	st, err := c.State(db)
	if err != nil {
		return nil, err
	}
	excess, err := c.excess(db, st, ticker)
	if err != nil {
		return nil, err
	}
	amount := coin.AmountOf(excess)
	if !amount.IsZero() {
		push := coin.Coin{Ticker: ticker, Amount: amount}
		if err := c.gateway.MoveCoins(db, ReserveAddress, dest, push); err != nil {
			return nil, errors.Wrap(err, "sweep")
		}
	}
	if err := c.checkInvariants(ctx, db, st); err != nil {
		return nil, err
	}
	return amount, nil
}

// SetPaused pauses or unpauses stake, unstake and claim operations.
func (c Controller) SetPaused(ctx weave.Context, db weave.KVStore, paused bool) error {
	st, err := c.State(db)
	if err != nil {
		return err
	}
	if st.Paused == paused {
		return errors.Wrapf(errors.ErrState, "paused is already %v", paused)
	}
	st.Paused = paused
	return c.commit(ctx, db, st)
}
