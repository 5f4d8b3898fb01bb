package pool

import (
	"github.com/holiman/uint256"
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// tracked returns the amount of given currency the reserve must hold.
func tracked(st *State, ticker string) *uint256.Int {
	total := new(uint256.Int)
	if ticker == st.StakeTicker {
		total.Add(total, st.StakedTotal.Int())
	}
	if ticker == st.RewardTicker {
		total.Add(total, st.RewardTotal.Int())
	}
	return total
}

// excess returns the amount of given currency held by the reserve above
// what the pool accounts for. For a currency not used by the pool this is
// the whole balance.
func (c Controller) excess(db weave.ReadOnlyKVStore, st *State, ticker string) (*uint256.Int, error) {
	balance, err := c.gateway.Balance(db, ReserveAddress)
	if err != nil {
		return nil, errors.Wrap(err, "reserve balance")
	}
	held := balance.Balance(ticker).Int()
	want := tracked(st, ticker)
	if held.Lt(want) {
		return nil, errors.Wrapf(ErrInvariant, "reserve holds %s %s, pool accounts for %s", held.Dec(), ticker, want.Dec())
	}
	return new(uint256.Int).Sub(held, want), nil
}

// checkInvariants ensures the reserve holds at least what the pool accounts
// for, in both currencies.
func (c Controller) checkInvariants(ctx weave.Context, db weave.ReadOnlyKVStore, st *State) error {
	for _, ticker := range []string{st.StakeTicker, st.RewardTicker} {
		if _, err := c.excess(db, st, ticker); err != nil {
			weave.GetLogger(ctx).Error("pool invariant violated",
				"ticker", ticker,
				"staked", st.StakedTotal.String(),
				"rewards", st.RewardTotal.String(),
				"err", err)
			return err
		}
	}
	return nil
}
