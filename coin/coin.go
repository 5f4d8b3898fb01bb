package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/stakeweave/errors"
)

// IsCC reports whether s is a valid ticker: three or four upper case letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a single currency, counted in the smallest units of
// that currency.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount Amount `json:"amount"`
}

func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: NewAmount(amount),
	}
}

func NewCoinp(amount uint64, ticker string) *Coin {
	return &Coin{Ticker: ticker, Amount: NewAmount(amount)}
}

func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker)
	}
	return c.Amount.Validate()
}

func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

// IsEmpty returns true if the coin is nil or holds no value.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// Compare returns -1, 0 or 1 when c is respectively lower, equal or greater
// than o. Currency is ignored.
func (c Coin) Compare(o Coin) int {
	return c.Amount.Cmp(o.Amount)
}

// IsGTE returns true if c is the same type and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.Ticker == o.Ticker && c.Compare(o) >= 0
}

func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount.Equals(o.Amount)
}

// Add combines two coins of the same currency.
func (c Coin) Add(o Coin) (Coin, error) {
	if c.Ticker != o.Ticker {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum, err := c.Amount.Add(o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: sum}, nil
}

// Subtract returns c decreased by o. ErrInsufficientAmount is returned if the
// result would be negative.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if c.Ticker != o.Ticker {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	diff, err := c.Amount.Sub(o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: diff}, nil
}

// Clone returns a deep copy. A nil coin stays nil.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	amount := make(Amount, len(c.Amount))
	copy(amount, c.Amount)
	return &Coin{Ticker: c.Ticker, Amount: amount}
}

func (c Coin) String() string {
	if c.Ticker == "" {
		return c.Amount.String()
	}
	return fmt.Sprintf("%s %s", c.Amount, c.Ticker)
}

// UnmarshalJSON accepts both the object representation and the human readable
// form, for example "1500 STK".
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		val, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = val
		return nil
	}

	// Alias prevents recursion into this method.
	type coin Coin
	var val coin
	if err := json.Unmarshal(raw, &val); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin(val)
	return nil
}

var humanCoinFormat = regexp.MustCompile(`^(\d+)\s*([A-Z]{3,4})$`)

// ParseHumanFormat parses a coin written as an integer amount followed by the
// currency ticker, for example "1500 STK".
func ParseHumanFormat(h string) (Coin, error) {
	args := humanCoinFormat.FindStringSubmatch(strings.TrimSpace(h))
	if len(args) == 0 {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	amount, err := ParseAmount(args[1])
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: args[2], Amount: amount}, nil
}
