package cash

import (
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/store"
	"github.com/iov-one/stakeweave/weavetest"
	"github.com/iov-one/stakeweave/weavetest/assert"
)

func registerTokens(t testing.TB, db weave.KVStore, ctrl BaseController, tickers ...string) {
	t.Helper()
	for _, ticker := range tickers {
		tok := &Token{Metadata: &weave.Metadata{Schema: 1}, Ticker: ticker, Name: ticker, Decimals: 6}
		if err := ctrl.RegisterToken(db, tok); err != nil {
			t.Fatalf("register %s: %s", ticker, err)
		}
	}
}

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	registerTokens(t, db, ctrl, "STK", "RWD")

	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	assert.Nil(t, ctrl.CoinMint(db, alice, coin.NewCoin(1000, "STK")))
	assert.Nil(t, ctrl.CoinMint(db, alice, coin.NewCoin(50, "RWD")))

	assert.IsErr(t, ErrUnknownToken, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(1, "XYZ")))
	assert.IsErr(t, errors.ErrAmount, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(0, "STK")))
	assert.IsErr(t, errors.ErrInsufficientAmount, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(1001, "STK")))
	assert.IsErr(t, errors.ErrInsufficientAmount, ctrl.MoveCoins(db, bob, alice, coin.NewCoin(1, "STK")))

	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(400, "STK")))

	balance, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	if !balance.Balance("STK").Equals(coin.NewAmount(600)) {
		t.Fatalf("want 600 STK, got %s", balance.Balance("STK"))
	}
	if !balance.Balance("RWD").Equals(coin.NewAmount(50)) {
		t.Fatalf("want 50 RWD, got %s", balance.Balance("RWD"))
	}
	balance, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	if !balance.Balance("STK").Equals(coin.NewAmount(400)) {
		t.Fatalf("want 400 STK, got %s", balance.Balance("STK"))
	}

	// Moving everything out removes the wallet.
	assert.Nil(t, ctrl.MoveCoins(db, bob, alice, coin.NewCoin(400, "STK")))
	assert.IsErr(t, errors.ErrNotFound, ctrl.wallets.Has(db, bob))
}

func TestMoveFrom(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	registerTokens(t, db, ctrl, "STK")

	owner := weavetest.NewCondition().Address()
	spender := weavetest.NewCondition().Address()
	dest := weavetest.NewCondition().Address()
	assert.Nil(t, ctrl.CoinMint(db, owner, coin.NewCoin(100, "STK")))

	assert.IsErr(t, ErrInsufficientAllowance, ctrl.MoveFrom(db, spender, owner, dest, coin.NewCoin(1, "STK")))

	assert.Nil(t, ctrl.Approve(db, owner, spender, coin.NewCoin(30, "STK")))
	assert.IsErr(t, ErrInsufficientAllowance, ctrl.MoveFrom(db, spender, owner, dest, coin.NewCoin(31, "STK")))
	assert.Nil(t, ctrl.MoveFrom(db, spender, owner, dest, coin.NewCoin(20, "STK")))

	left, err := ctrl.Allowance(db, owner, spender, "STK")
	assert.Nil(t, err)
	if !left.Equals(coin.NewAmount(10)) {
		t.Fatalf("want 10 allowance left, got %s", left)
	}

	assert.Nil(t, ctrl.MoveFrom(db, spender, owner, dest, coin.NewCoin(10, "STK")))
	left, err = ctrl.Allowance(db, owner, spender, "STK")
	assert.Nil(t, err)
	if !left.IsZero() {
		t.Fatalf("want allowance consumed, got %s", left)
	}

	// Unlimited allowance is never consumed but balance still applies.
	assert.Nil(t, ctrl.Approve(db, owner, spender, coin.Coin{Ticker: "STK", Amount: coin.MaxAmount()}))
	assert.Nil(t, ctrl.MoveFrom(db, spender, owner, dest, coin.NewCoin(70, "STK")))
	left, err = ctrl.Allowance(db, owner, spender, "STK")
	assert.Nil(t, err)
	if !left.Equals(coin.MaxAmount()) {
		t.Fatalf("want unlimited allowance, got %s", left)
	}
	assert.IsErr(t, errors.ErrInsufficientAmount, ctrl.MoveFrom(db, spender, owner, dest, coin.NewCoin(1, "STK")))

	balance, err := ctrl.Balance(db, dest)
	assert.Nil(t, err)
	if !balance.Balance("STK").Equals(coin.NewAmount(100)) {
		t.Fatalf("want 100 STK, got %s", balance.Balance("STK"))
	}
}

func TestApproveRevoke(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	registerTokens(t, db, ctrl, "STK")

	owner := weavetest.NewCondition().Address()
	spender := weavetest.NewCondition().Address()

	assert.IsErr(t, ErrUnknownToken, ctrl.Approve(db, owner, spender, coin.NewCoin(1, "ABC")))
	// Revoking a never granted allowance is fine.
	assert.Nil(t, ctrl.Approve(db, owner, spender, coin.NewCoin(0, "STK")))

	assert.Nil(t, ctrl.Approve(db, owner, spender, coin.NewCoin(5, "STK")))
	assert.Nil(t, ctrl.Approve(db, owner, spender, coin.NewCoin(0, "STK")))
	left, err := ctrl.Allowance(db, owner, spender, "STK")
	assert.Nil(t, err)
	if !left.IsZero() {
		t.Fatalf("want no allowance, got %s", left)
	}
}

func TestRegisterToken(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	registerTokens(t, db, ctrl, "STK")

	dup := &Token{Metadata: &weave.Metadata{Schema: 1}, Ticker: "STK", Decimals: 2}
	assert.IsErr(t, errors.ErrDuplicate, ctrl.RegisterToken(db, dup))

	tooPrecise := &Token{Metadata: &weave.Metadata{Schema: 1}, Ticker: "ABC", Decimals: 19}
	if err := ctrl.RegisterToken(db, tooPrecise); err == nil {
		t.Fatal("token with too many decimals registered")
	}

	tok, err := ctrl.Token(db, "STK")
	assert.Nil(t, err)
	assert.Equal(t, uint32(6), tok.Decimals)
	_, err = ctrl.Token(db, "ABC")
	assert.IsErr(t, ErrUnknownToken, err)
}
