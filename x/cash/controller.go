package cash

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/orm"
)

// Controller is the functionality needed by other extensions to move funds.
type Controller interface {
	// Token returns the registered information of a currency.
	Token(db weave.ReadOnlyKVStore, ticker string) (*Token, error)

	// Balance returns all coins owned by given address.
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error)

	// MoveCoins pushes amount from src to dest. It fails if src does not
	// hold enough coins.
	MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error

	// MoveFrom pulls amount from owner to dest on behalf of spender. It
	// fails if the owner did not approve spender to move at least that
	// amount or if the owner does not hold enough coins.
	MoveFrom(db weave.KVStore, spender, owner, dest weave.Address, amount coin.Coin) error
}

// BaseController is the cash implementation of Controller. It also provides
// management functionality used by this extension handlers and genesis.
type BaseController struct {
	wallets    orm.ModelBucket
	allowances orm.ModelBucket
	tokens     orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the default buckets.
func NewController() BaseController {
	return BaseController{
		wallets:    NewWalletBucket(),
		allowances: NewAllowanceBucket(),
		tokens:     NewTokenBucket(),
	}
}

func (c BaseController) Token(db weave.ReadOnlyKVStore, ticker string) (*Token, error) {
	var t Token
	if err := c.tokens.One(db, []byte(ticker), &t); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrUnknownToken, "ticker %q", ticker)
		}
		return nil, err
	}
	return &t, nil
}

// RegisterToken stores information about a new currency. A currency can be
// registered only once.
func (c BaseController) RegisterToken(db weave.KVStore, t *Token) error {
	switch err := c.tokens.Has(db, []byte(t.Ticker)); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "token %q", t.Ticker)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return c.tokens.Put(db, []byte(t.Ticker), t)
}

func (c BaseController) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Coins, nil
}

func (c BaseController) MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error {
	if err := c.checkTransfer(db, amount); err != nil {
		return err
	}
	if err := c.subtract(db, src, amount); err != nil {
		return err
	}
	return c.add(db, dest, amount)
}

func (c BaseController) MoveFrom(db weave.KVStore, spender, owner, dest weave.Address, amount coin.Coin) error {
	if err := c.checkTransfer(db, amount); err != nil {
		return err
	}
	allowed, err := c.Allowance(db, owner, spender, amount.Ticker)
	if err != nil {
		return err
	}
	if allowed.Cmp(amount.Amount) < 0 {
		return errors.Wrapf(ErrInsufficientAllowance, "%s approved %s %s, requested %s",
			owner, allowed, amount.Ticker, amount.Amount)
	}
	// The greatest possible allowance is never consumed.
	if !allowed.Equals(coin.MaxAmount()) {
		left, err := allowed.Sub(amount.Amount)
		if err != nil {
			return err
		}
		if err := c.Approve(db, owner, spender, coin.Coin{Ticker: amount.Ticker, Amount: left}); err != nil {
			return errors.Wrap(err, "update allowance")
		}
	}
	if err := c.subtract(db, owner, amount); err != nil {
		return err
	}
	return c.add(db, dest, amount)
}

// Approve sets the amount of coins spender can move out of the owner wallet.
// A zero amount removes the allowance.
func (c BaseController) Approve(db weave.KVStore, owner, spender weave.Address, amount coin.Coin) error {
	if _, err := c.Token(db, amount.Ticker); err != nil {
		return err
	}
	key := allowanceKey(owner, spender, amount.Ticker)
	if amount.IsZero() {
		if err := c.allowances.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	a := Allowance{
		Metadata: &weave.Metadata{Schema: 1},
		Owner:    owner,
		Spender:  spender,
		Amount:   amount,
	}
	return c.allowances.Put(db, key, &a)
}

// Allowance returns the amount of given currency spender can move out of the
// owner wallet.
func (c BaseController) Allowance(db weave.ReadOnlyKVStore, owner, spender weave.Address, ticker string) (coin.Amount, error) {
	var a Allowance
	switch err := c.allowances.One(db, allowanceKey(owner, spender, ticker), &a); {
	case err == nil:
		return a.Amount.Amount, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// CoinMint creates new coins and adds them to the destination wallet.
func (c BaseController) CoinMint(db weave.KVStore, dest weave.Address, amount coin.Coin) error {
	if err := c.checkTransfer(db, amount); err != nil {
		return err
	}
	return c.add(db, dest, amount)
}

func (c BaseController) checkTransfer(db weave.ReadOnlyKVStore, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero value transfer")
	}
	if _, err := c.Token(db, amount.Ticker); err != nil {
		return err
	}
	return nil
}

func (c BaseController) wallet(db weave.ReadOnlyKVStore, addr weave.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}

func (c BaseController) subtract(db weave.KVStore, addr weave.Address, amount coin.Coin) error {
	w, err := c.wallet(db, addr)
	if err != nil {
		return err
	}
	if !w.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %s %s, requested %s",
			addr, w.Coins.Balance(amount.Ticker), amount.Ticker, amount.Amount)
	}
	if w.Coins, err = w.Coins.Subtract(amount); err != nil {
		return err
	}
	if w.Coins.IsEmpty() {
		return c.wallets.Delete(db, addr)
	}
	return c.wallets.Put(db, addr, w)
}

func (c BaseController) add(db weave.KVStore, addr weave.Address, amount coin.Coin) error {
	w, err := c.wallet(db, addr)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	return c.wallets.Put(db, addr, w)
}
