package cash

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/orm"
)

const maxTokenNameLength = 32

// Wallet holds all coins owned by a single address. The wallet address is
// the key it is stored under.
type Wallet struct {
	Metadata *weave.Metadata `json:"metadata"`
	Coins    coin.Coins      `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(w) }
func (w *Wallet) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, w) }

func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	errs = errors.AppendField(errs, "Coins", w.Coins.Validate())
	return errs
}

func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{
		Metadata: w.Metadata.Copy(),
		Coins:    w.Coins.Clone(),
	}
}

// NewWalletBucket returns a bucket for wallets, keyed by the owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}

// Allowance is the amount of a single currency that the spender is allowed
// to move out of the owner wallet.
type Allowance struct {
	Metadata *weave.Metadata `json:"metadata"`
	Owner    weave.Address   `json:"owner"`
	Spender  weave.Address   `json:"spender"`
	Amount   coin.Coin       `json:"amount"`
}

var _ orm.Model = (*Allowance)(nil)

func (a *Allowance) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(a) }
func (a *Allowance) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, a) }

func (a *Allowance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", a.Spender.Validate())
	errs = errors.AppendField(errs, "Amount", a.Amount.Validate())
	return errs
}

func (a *Allowance) Copy() orm.CloneableData {
	return &Allowance{
		Metadata: a.Metadata.Copy(),
		Owner:    a.Owner,
		Spender:  a.Spender,
		Amount:   *a.Amount.Clone(),
	}
}

// allowanceKey returns the key an allowance is stored under. All allowances
// of an owner share the owner address prefix.
func allowanceKey(owner, spender weave.Address, ticker string) []byte {
	key := make([]byte, 0, len(owner)+len(spender)+len(ticker))
	key = append(key, owner...)
	key = append(key, spender...)
	return append(key, ticker...)
}

// NewAllowanceBucket returns a bucket for allowances.
func NewAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("allowance", &Allowance{})
}

// Token describes a registered currency.
type Token struct {
	Metadata *weave.Metadata `json:"metadata"`
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	// Decimals is the number of decimal places of the smallest unit.
	Decimals uint32 `json:"decimals"`
}

var _ orm.Model = (*Token)(nil)

func (t *Token) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(t) }
func (t *Token) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, t) }

func (t *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	if !coin.IsCC(t.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", t.Ticker))
	}
	if len(t.Name) > maxTokenNameLength {
		errs = errors.AppendField(errs, "Name", errors.Wrap(errors.ErrInput, "name too long"))
	}
	if t.Decimals > coin.MaxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.Wrapf(errors.ErrInput, "at most %d decimals allowed", coin.MaxDecimals))
	}
	return errs
}

func (t *Token) Copy() orm.CloneableData {
	cpy := *t
	cpy.Metadata = t.Metadata.Copy()
	return &cpy
}

// NewTokenBucket returns a bucket for token information, keyed by the ticker.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &Token{})
}
