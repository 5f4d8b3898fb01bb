package pool

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/gconf"
	"github.com/iov-one/stakeweave/store"
	"github.com/iov-one/stakeweave/weavetest"
	"github.com/iov-one/stakeweave/weavetest/assert"
	"github.com/iov-one/stakeweave/x/cash"
)

const (
	stakeTicker  = "STK"
	rewardTicker = "RWD"
	genesisTime  = 1500000000
)

// fixture is a pool with a stake currency of 18 decimals and a reward
// currency of 6 decimals. All wallets are funded and the reserve is
// approved to pull from them.
type fixture struct {
	db    weave.CacheableKVStore
	cash  cash.BaseController
	ctrl  Controller
	owner weave.Condition
}

func newFixture(t testing.TB, maxDuration uint64) *fixture {
	t.Helper()
	db := store.MemStore()
	ctrl := cash.NewController()
	for ticker, decimals := range map[string]uint32{stakeTicker: 18, rewardTicker: 6} {
		tok := &cash.Token{Metadata: &weave.Metadata{Schema: 1}, Ticker: ticker, Name: ticker, Decimals: decimals}
		if err := ctrl.RegisterToken(db, tok); err != nil {
			t.Fatalf("register %s: %s", ticker, err)
		}
	}
	st := &State{
		Metadata:       &weave.Metadata{Schema: 1},
		StakeTicker:    stakeTicker,
		StakeDecimals:  18,
		RewardTicker:   rewardTicker,
		RewardDecimals: 6,
		StartTime:      genesisTime,
		EndTime:        genesisTime,
	}
	if err := NewStateBucket().Put(db, stateKey, st); err != nil {
		t.Fatalf("save state: %s", err)
	}
	owner := weavetest.NewCondition()
	conf := &Configuration{
		Metadata:    &weave.Metadata{Schema: 1},
		Owner:       owner.Address(),
		MaxDuration: maxDuration,
	}
	if err := gconf.Save(db, packageName, conf); err != nil {
		t.Fatalf("save configuration: %s", err)
	}
	f := &fixture{db: db, cash: ctrl, ctrl: NewController(ctrl), owner: owner}
	f.fund(t, owner.Address(), rewardTicker, 1000000)
	return f
}

// fund mints coins to the address and allows the reserve to pull them.
func (f *fixture) fund(t testing.TB, addr weave.Address, ticker string, amount uint64) {
	t.Helper()
	assert.Nil(t, f.cash.CoinMint(f.db, addr, coin.NewCoin(amount, ticker)))
	assert.Nil(t, f.cash.Approve(f.db, addr, ReserveAddress, coin.Coin{Ticker: ticker, Amount: coin.MaxAmount()}))
}

func (f *fixture) balance(t testing.TB, addr weave.Address, ticker string) coin.Amount {
	t.Helper()
	b, err := f.cash.Balance(f.db, addr)
	assert.Nil(t, err)
	return b.Balance(ticker)
}

func (f *fixture) state(t testing.TB) *State {
	t.Helper()
	st, err := f.ctrl.State(f.db)
	assert.Nil(t, err)
	return st
}

func (f *fixture) pending(t testing.TB, at int64, holder weave.Address) coin.Amount {
	t.Helper()
	models, err := queryPending(at2ctx(at), f.db, weave.KeyQueryMod, holder)
	assert.Nil(t, err)
	if len(models) == 0 {
		return nil
	}
	var p Pending
	assert.Nil(t, p.Unmarshal(models[0].Value))
	return p.Rewards.Amount
}

// at2ctx returns a context with the block time set to given number of
// seconds after the genesis.
func at2ctx(sec int64) weave.Context {
	return weave.WithBlockTime(context.Background(), time.Unix(genesisTime+sec, 0))
}

func assertAmount(t testing.TB, want uint64, got coin.Amount) {
	t.Helper()
	if !got.Equals(coin.NewAmount(want)) {
		t.Fatalf("want %d, got %s", want, got)
	}
}

func TestProportionalDistribution(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 300)
	f.fund(t, bob, stakeTicker, 700)

	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(1000), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(300)))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, bob, coin.NewAmount(700)))

	assertAmount(t, 150, f.pending(t, 5, alice))
	assertAmount(t, 350, f.pending(t, 5, bob))

	paid, err := f.ctrl.Claim(at2ctx(5), f.db, alice)
	assert.Nil(t, err)
	assertAmount(t, 150, paid)
	assertAmount(t, 150, f.balance(t, alice, rewardTicker))
	assertAmount(t, 0, f.pending(t, 5, alice))
	assertAmount(t, 350, f.pending(t, 5, bob))

	// After the window closes everything is distributed.
	assertAmount(t, 150, f.pending(t, 20, alice))
	assertAmount(t, 700, f.pending(t, 20, bob))

	st := f.state(t)
	assertAmount(t, 850, st.RewardTotal)
	assertAmount(t, 1000, st.StakedTotal)
}

func TestLateStakeShares(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 100)
	f.fund(t, bob, stakeTicker, 100)

	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(1000), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(100)))
	assert.Nil(t, f.ctrl.Stake(at2ctx(4), f.db, bob, coin.NewAmount(100)))

	// 400 to alice alone, the remaining 600 split equally.
	assertAmount(t, 700, f.pending(t, 10, alice))
	assertAmount(t, 300, f.pending(t, 10, bob))
}

func TestWindowWaitsForStake(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 10)

	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(1000), 10))
	// Nothing staked, nothing distributed. The window starts with the
	// first stake.
	assert.Nil(t, f.ctrl.Stake(at2ctx(100), f.db, alice, coin.NewAmount(10)))

	st := f.state(t)
	if st.StartTime != genesisTime+100 || st.EndTime != genesisTime+110 {
		t.Fatalf("unexpected window %d - %d", st.StartTime, st.EndTime)
	}
	assertAmount(t, 500, f.pending(t, 105, alice))
	assertAmount(t, 1000, f.pending(t, 200, alice))
}

func TestClaimIsIdempotent(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 10)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(10)))

	paid, err := f.ctrl.Claim(at2ctx(3), f.db, alice)
	assert.Nil(t, err)
	assertAmount(t, 30, paid)
	paid, err = f.ctrl.Claim(at2ctx(3), f.db, alice)
	assert.Nil(t, err)
	assertAmount(t, 0, paid)
	assertAmount(t, 30, f.balance(t, alice, rewardTicker))

	// Holder without a stake claims nothing and gets no record.
	stranger := weavetest.NewCondition().Address()
	paid, err = f.ctrl.Claim(at2ctx(3), f.db, stranger)
	assert.Nil(t, err)
	assertAmount(t, 0, paid)
	assert.IsErr(t, errors.ErrNotFound, f.ctrl.stakes.Has(f.db, stranger))
}

func TestStakeUnstakeRestoresBalance(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 500)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))
	before := f.state(t)

	assert.Nil(t, f.ctrl.Stake(at2ctx(2), f.db, alice, coin.NewAmount(200)))
	assertAmount(t, 300, f.balance(t, alice, stakeTicker))
	assert.Nil(t, f.ctrl.Unstake(at2ctx(2), f.db, alice, coin.NewAmount(200)))
	assertAmount(t, 500, f.balance(t, alice, stakeTicker))

	after := f.state(t)
	assertAmount(t, 0, after.StakedTotal)
	if !after.RewardTotal.Equals(before.RewardTotal) {
		t.Fatalf("reward total changed from %s to %s", before.RewardTotal, after.RewardTotal)
	}
	assert.IsErr(t, ErrInsufficientStake, f.ctrl.Unstake(at2ctx(2), f.db, alice, coin.NewAmount(1)))
}

func TestUnstakeKeepsEarnedRewards(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 10)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(10)))

	assert.Nil(t, f.ctrl.Unstake(at2ctx(4), f.db, alice, coin.NewAmount(10)))
	assertAmount(t, 40, f.pending(t, 8, alice))

	// With nothing staked the rest of the window waits.
	st := f.state(t)
	assertAmount(t, 60, st.RewardsAmount)
	assertAmount(t, 100, st.RewardTotal)
}

func TestAddRewardsOverflow(t *testing.T) {
	f := newFixture(t, 0)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))
	before := f.state(t)

	huge, err := coin.ParseAmount("100000000000000000000000000000000000000000000000000")
	assert.Nil(t, err)
	err = f.ctrl.AddRewards(at2ctx(1), f.db, f.owner.Address(), huge, 10)
	assert.IsErr(t, errors.ErrOverflow, err)

	after := f.state(t)
	if !after.RewardsAmount.Equals(before.RewardsAmount) || after.EndTime != before.EndTime {
		t.Fatalf("window changed by a failed operation")
	}
}

func TestAccumulatorStaysInRange(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 1)
	// Each top up moves the accumulator by 1e77 for a stake of one
	// unit, a second one would not fit in 256 bits.
	topUp := coin.AmountOf(new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(47)))
	assert.Nil(t, f.cash.CoinMint(f.db, f.owner.Address(), coin.Coin{Ticker: rewardTicker, Amount: topUp}))
	assert.Nil(t, f.cash.CoinMint(f.db, f.owner.Address(), coin.Coin{Ticker: rewardTicker, Amount: topUp}))

	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(1)))
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), topUp, 1))
	before := f.state(t)

	err := f.ctrl.AddRewards(at2ctx(1), f.db, f.owner.Address(), topUp, 1)
	assert.IsErr(t, errors.ErrOverflow, err)
	after := f.state(t)
	if !after.RewardsAmount.Equals(before.RewardsAmount) || after.StartTime != before.StartTime || after.EndTime != before.EndTime {
		t.Fatalf("window changed by a rejected top up")
	}

	// The pool keeps working with the accumulator close to its limit.
	assertAmount(t, 0, f.pending(t, 3, weavetest.NewCondition().Address()))
	if got := f.pending(t, 3, alice); !got.Equals(topUp) {
		t.Fatalf("want %s pending, got %s", topUp, got)
	}
	withdrawn, err := f.ctrl.RemoveRewards(at2ctx(3), f.db, f.owner.Address())
	assert.Nil(t, err)
	assertAmount(t, 0, withdrawn)
	returned, forfeited, err := f.ctrl.EmergencyWithdraw(at2ctx(3), f.db, alice)
	assert.Nil(t, err)
	assertAmount(t, 1, returned)
	if !forfeited.Equals(topUp) {
		t.Fatalf("want %s forfeited, got %s", topUp, forfeited)
	}
	assertAmount(t, 1, f.balance(t, alice, stakeTicker))
}

func TestRewardsRequireWindow(t *testing.T) {
	f := newFixture(t, 0)
	assert.IsErr(t, errors.ErrInput, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 0))
	assert.IsErr(t, errors.ErrAmount, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(0), 10))

	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))
	assert.IsErr(t, errors.ErrInput, f.ctrl.SetDurationTo(at2ctx(1), f.db, 0))
	assert.IsErr(t, errors.ErrInput, f.ctrl.SetDurationUntil(at2ctx(1), f.db, genesisTime))
}

func TestMaxDuration(t *testing.T) {
	f := newFixture(t, 100)
	assert.IsErr(t, errors.ErrInput, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 101))
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 60))
	// Extending is limited by the total length.
	assert.IsErr(t, errors.ErrInput, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 41))
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 40))
}

func TestSetDuration(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 10)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(1000), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(10)))

	// 500 distributed, the other 500 spread over the next 50 seconds.
	assert.Nil(t, f.ctrl.SetDurationTo(at2ctx(5), f.db, 50))
	st := f.state(t)
	assertAmount(t, 500, st.RewardsAmount)
	if st.EndTime != genesisTime+55 {
		t.Fatalf("unexpected end time %d", st.EndTime)
	}
	assertAmount(t, 600, f.pending(t, 15, alice))

	// Rewards are left, an empty window would never release them.
	assert.IsErr(t, errors.ErrInput, f.ctrl.SetDurationTo(at2ctx(15), f.db, 0))
	assert.IsErr(t, errors.ErrInput, f.ctrl.SetDurationUntil(at2ctx(15), f.db, genesisTime+15))
	if st := f.state(t); st.EndTime != genesisTime+55 {
		t.Fatalf("rejected change moved the end time to %d", st.EndTime)
	}

	assert.Nil(t, f.ctrl.SetDurationUntil(at2ctx(15), f.db, genesisTime+25))
	assertAmount(t, 1000, f.pending(t, 25, alice))
	assert.IsErr(t, errors.ErrInput, f.ctrl.SetDurationUntil(at2ctx(30), f.db, genesisTime+29))
}

func TestRemoveRewards(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	dest := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 10)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(1000), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(10)))

	withdrawn, err := f.ctrl.RemoveRewards(at2ctx(4), f.db, dest)
	assert.Nil(t, err)
	assertAmount(t, 600, withdrawn)
	assertAmount(t, 600, f.balance(t, dest, rewardTicker))

	// What was distributed stays claimable.
	assertAmount(t, 400, f.pending(t, 100, alice))
	paid, err := f.ctrl.Claim(at2ctx(100), f.db, alice)
	assert.Nil(t, err)
	assertAmount(t, 400, paid)
	assertAmount(t, 0, f.state(t).RewardTotal)
}

func TestPause(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 10)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(5)))

	assert.Nil(t, f.ctrl.SetPaused(at2ctx(1), f.db, true))
	assert.IsErr(t, errors.ErrState, f.ctrl.SetPaused(at2ctx(1), f.db, true))

	assert.IsErr(t, ErrPaused, f.ctrl.Stake(at2ctx(2), f.db, alice, coin.NewAmount(5)))
	assert.IsErr(t, ErrPaused, f.ctrl.Unstake(at2ctx(2), f.db, alice, coin.NewAmount(5)))
	_, err := f.ctrl.Claim(at2ctx(2), f.db, alice)
	assert.IsErr(t, ErrPaused, err)

	// Administration continues while paused.
	assert.Nil(t, f.ctrl.SetDurationTo(at2ctx(2), f.db, 20))

	assert.Nil(t, f.ctrl.SetPaused(at2ctx(3), f.db, false))
	assert.IsErr(t, errors.ErrState, f.ctrl.SetPaused(at2ctx(3), f.db, false))
	assert.Nil(t, f.ctrl.Stake(at2ctx(3), f.db, alice, coin.NewAmount(5)))
}

func TestEmergencyWithdraw(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 10)
	f.fund(t, bob, stakeTicker, 10)
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(10)))
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, bob, coin.NewAmount(10)))
	assert.Nil(t, f.ctrl.SetPaused(at2ctx(4), f.db, true))

	returned, forfeited, err := f.ctrl.EmergencyWithdraw(at2ctx(4), f.db, alice)
	assert.Nil(t, err)
	assertAmount(t, 10, returned)
	assertAmount(t, 20, forfeited)
	assertAmount(t, 10, f.balance(t, alice, stakeTicker))
	assertAmount(t, 0, f.balance(t, alice, rewardTicker))

	_, _, err = f.ctrl.EmergencyWithdraw(at2ctx(4), f.db, weavetest.NewCondition().Address())
	assert.IsErr(t, errors.ErrNotFound, err)

	// Bob is the only staker for the rest of the window.
	assertAmount(t, 80, f.pending(t, 10, bob))

	// Forfeited rewards are no longer tracked.
	dest := weavetest.NewCondition().Address()
	swept, err := f.ctrl.Sweep(at2ctx(4), f.db, rewardTicker, dest)
	assert.Nil(t, err)
	assertAmount(t, 20, swept)
}

func TestSweep(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	dest := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 100)
	btc := &cash.Token{Metadata: &weave.Metadata{Schema: 1}, Ticker: "BTC", Name: "bitcoin", Decimals: 8}
	assert.Nil(t, f.cash.RegisterToken(f.db, btc))
	f.fund(t, alice, "BTC", 7)
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(60)))

	// Nothing above what the pool tracks.
	swept, err := f.ctrl.Sweep(at2ctx(0), f.db, stakeTicker, dest)
	assert.Nil(t, err)
	assertAmount(t, 0, swept)

	// Coins sent directly to the reserve can be recovered.
	assert.Nil(t, f.cash.MoveCoins(f.db, alice, ReserveAddress, coin.NewCoin(40, stakeTicker)))
	assert.Nil(t, f.cash.MoveCoins(f.db, alice, ReserveAddress, coin.NewCoin(7, "BTC")))
	swept, err = f.ctrl.Sweep(at2ctx(0), f.db, stakeTicker, dest)
	assert.Nil(t, err)
	assertAmount(t, 40, swept)
	swept, err = f.ctrl.Sweep(at2ctx(0), f.db, "BTC", dest)
	assert.Nil(t, err)
	assertAmount(t, 7, swept)

	assertAmount(t, 60, f.balance(t, ReserveAddress, stakeTicker))
	assertAmount(t, 40, f.balance(t, dest, stakeTicker))
}

func TestSharedCurrency(t *testing.T) {
	f := newFixture(t, 0)
	st := f.state(t)
	st.RewardTicker = stakeTicker
	st.RewardDecimals = 18
	assert.Nil(t, NewStateBucket().Put(f.db, stateKey, st))

	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 100)
	f.fund(t, f.owner.Address(), stakeTicker, 100)
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(100)))
	assert.Nil(t, f.ctrl.AddRewards(at2ctx(0), f.db, f.owner.Address(), coin.NewAmount(100), 10))

	// Both stake and rewards are tracked, nothing to sweep.
	swept, err := f.ctrl.Sweep(at2ctx(5), f.db, stakeTicker, weavetest.NewCondition().Address())
	assert.Nil(t, err)
	assertAmount(t, 0, swept)

	paid, err := f.ctrl.Claim(at2ctx(10), f.db, alice)
	assert.Nil(t, err)
	assertAmount(t, 100, paid)
	assert.Nil(t, f.ctrl.Unstake(at2ctx(10), f.db, alice, coin.NewAmount(100)))
	assertAmount(t, 200, f.balance(t, alice, stakeTicker))
}

func TestInvariantViolation(t *testing.T) {
	f := newFixture(t, 0)
	alice := weavetest.NewCondition().Address()
	f.fund(t, alice, stakeTicker, 100)
	assert.Nil(t, f.ctrl.Stake(at2ctx(0), f.db, alice, coin.NewAmount(100)))

	// Reserve drained behind the pool back.
	assert.Nil(t, f.cash.MoveCoins(f.db, ReserveAddress, alice, coin.NewCoin(1, stakeTicker)))
	_, err := f.ctrl.Sweep(at2ctx(1), f.db, stakeTicker, alice)
	assert.IsErr(t, ErrInvariant, err)
	assert.IsErr(t, ErrInvariant, f.ctrl.SetPaused(at2ctx(1), f.db, true))
}
