package pool

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
)

// precision is the fixed point unit of the accumulator.
var precision = uint256.NewInt(1e18)

// scaleOf returns the multiplier that brings an amount with given number of
// decimals to 18 decimals.
func scaleOf(decimals uint32) *uint256.Int {
	if decimals > coin.MaxDecimals {
		panic("decimals out of range")
	}
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(coin.MaxDecimals-decimals)))
}

func mul(a, b *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, errors.Wrapf(errors.ErrOverflow, "%s * %s", a.Dec(), b.Dec())
	}
	return res, nil
}

// mulDiv returns a truncated a * b / d computed without an intermediate
// overflow.
func mulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, errors.Wrapf(errors.ErrOverflow, "%s * %s / %s", a.Dec(), b.Dec(), d.Dec())
	}
	return res, nil
}

// mulAll multiplies all given values, failing on the first overflow.
func mulAll(vals ...*uint256.Int) (*uint256.Int, error) {
	res := uint256.NewInt(1)
	for _, v := range vals {
		var err error
		if res, err = mul(res, v); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func add(a, b *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, errors.Wrapf(errors.ErrOverflow, "%s + %s", a.Dec(), b.Dec())
	}
	return res, nil
}

// sub returns a - b. The pool never subtracts more than it tracked, so an
// underflow means the accounting is broken.
func sub(a, b *uint256.Int) (*uint256.Int, error) {
	res, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, errors.Wrapf(ErrInvariant, "%s - %s", a.Dec(), b.Dec())
	}
	return res, nil
}

// div returns a truncated a / b. Division by zero returns zero.
func div(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(a, b)
}

func secs(s uint64) *uint256.Int {
	return uint256.NewInt(s)
}
