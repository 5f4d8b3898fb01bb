package coin

import (
	"sort"

	"github.com/iov-one/stakeweave/errors"
)

// Coins holds at most one non zero coin per ticker, sorted by ticker. A
// wallet balance and a pool reward set are both Coins.
type Coins []*Coin

// CombineCoins normalizes cs into Coins, summing the coins of the same
// ticker.
func CombineCoins(cs ...Coin) (Coins, error) {
	var out Coins
	for _, c := range cs {
		var err error
		if out, err = out.Add(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	out := make(Coins, len(cs))
	for i := range cs {
		out[i] = cs[i].Clone()
	}
	return out
}

// index returns the position of ticker in cs, or the position it would be
// inserted at, and whether it is present.
func (cs Coins) index(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}

// Add returns a new set with c added. cs is not modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	out := cs.Clone()
	if c.IsZero() {
		return out, nil
	}
	i, found := out.index(c.Ticker)
	if !found {
		out = append(out, nil)
		copy(out[i+1:], out[i:])
		out[i] = c.Clone()
		return out, nil
	}
	sum, err := out[i].Add(c)
	if err != nil {
		return nil, err
	}
	out[i] = &sum
	return out, nil
}

// Subtract returns a new set with c taken out. A coin that drops to zero
// leaves the set. Taking more than held gives ErrInsufficientAmount.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	out := cs.Clone()
	if c.IsZero() {
		return out, nil
	}
	i, found := out.index(c.Ticker)
	if !found {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "no %s held", c.Ticker)
	}
	rest, err := out[i].Subtract(c)
	if err != nil {
		return nil, err
	}
	if rest.IsZero() {
		return append(out[:i], out[i+1:]...), nil
	}
	out[i] = &rest
	return out, nil
}

// Combine returns the sum of both sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	out := cs.Clone()
	for _, c := range o {
		var err error
		if out, err = out.Add(*c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Contains reports whether cs holds at least c.
func (cs Coins) Contains(c Coin) bool {
	i, found := cs.index(c.Ticker)
	if !found {
		return c.IsZero()
	}
	return cs[i].IsGTE(c)
}

// Balance returns the amount held in ticker. Nil means zero.
func (cs Coins) Balance(ticker string) Amount {
	if i, found := cs.index(ticker); found {
		return cs[i].Amount
	}
	return nil
}

func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if !c.Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate checks every coin and the normal form: sorted, unique and non
// zero.
func (cs Coins) Validate() error {
	var errs error
	for i, c := range cs {
		if c == nil {
			errs = errors.Append(errs, errors.Wrap(errors.ErrEmpty, "nil coin"))
			continue
		}
		errs = errors.Append(errs, errors.Wrap(c.Validate(), "coin"))
		if c.IsZero() {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrState, "zero %s", c.Ticker))
		}
		if i > 0 && cs[i-1] != nil && cs[i-1].Ticker >= c.Ticker {
			errs = errors.Append(errs, errors.Wrap(errors.ErrState, "not sorted"))
		}
	}
	return errs
}
