package coin

import (
	"encoding/json"
	"strings"

	"github.com/holiman/uint256"
	"github.com/iov-one/stakeweave/errors"
)

// MaxDecimals is the highest precision a token can declare. All fixed point
// computations are done with this precision.
const MaxDecimals = 18

// Amount is an unsigned integer of at most 256 bits, serialized as a big
// endian byte slice without leading zeros. Zero value is a valid zero amount.
type Amount []byte

// NewAmount returns an amount holding given value.
func NewAmount(v uint64) Amount {
	return AmountOf(uint256.NewInt(v))
}

// AmountOf returns an amount holding the value of given integer.
func AmountOf(v *uint256.Int) Amount {
	if v == nil || v.IsZero() {
		return nil
	}
	return Amount(v.Bytes())
}

// ParseAmount reads a base 10 representation of an amount.
func ParseAmount(s string) (Amount, error) {
	v, err := uint256.FromDecimal(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAmount, "cannot parse %q: %s", s, err)
	}
	return AmountOf(v), nil
}

// MaxAmount returns the greatest value an amount can hold.
func MaxAmount() Amount {
	return AmountOf(new(uint256.Int).SetAllOne())
}

// Int returns a new integer holding amount value. Modifying returned value
// does not change the amount.
func (a Amount) Int() *uint256.Int {
	return new(uint256.Int).SetBytes(a)
}

// Validate returns an error if the amount cannot be represented with 256
// bits.
func (a Amount) Validate() error {
	if len(a) > 32 {
		return errors.Wrap(errors.ErrAmount, "value exceeds 256 bits")
	}
	return nil
}

func (a Amount) IsZero() bool {
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

// Cmp returns -1, 0 or 1 when a is respectively lower, equal or greater than
// b.
func (a Amount) Cmp(b Amount) int {
	return a.Int().Cmp(b.Int())
}

func (a Amount) Equals(b Amount) bool {
	return a.Cmp(b) == 0
}

// Add returns the sum of both amounts or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a.Int(), b.Int())
	if overflow {
		return nil, errors.Wrap(errors.ErrOverflow, "amount addition")
	}
	return AmountOf(sum), nil
}

// Sub returns the difference of both amounts. Result cannot be negative and
// ErrInsufficientAmount is returned if b is greater than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a.Int(), b.Int())
	if underflow {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "cannot subtract %s from %s", b, a)
	}
	return AmountOf(diff), nil
}

// String returns base 10 representation of the amount.
func (a Amount) String() string {
	return a.Int().Dec()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a quoted and a raw base 10 number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "amount must be a number")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
