package cash

import (
	"encoding/json"
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/store"
	"github.com/iov-one/stakeweave/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"tokens": [
			{"ticker": "STK", "name": "Stake", "decimals": 18},
			{"ticker": "RWD", "name": "Reward", "decimals": 6}
		],
		"cash": [
			{
				"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
				"coins": ["1500 STK", {"ticker": "RWD", "amount": "7000"}]
			}
		]
	}`
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, weave.GenesisParams{}, db))

	ctrl := NewController()
	tok, err := ctrl.Token(db, "STK")
	assert.Nil(t, err)
	assert.Equal(t, uint32(18), tok.Decimals)

	addr, err := weave.ParseAddress("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
	assert.Nil(t, err)
	balance, err := ctrl.Balance(db, addr)
	assert.Nil(t, err)
	want, err := coin.CombineCoins(coin.NewCoin(1500, "STK"), coin.NewCoin(7000, "RWD"))
	assert.Nil(t, err)
	if !balance.Equals(want) {
		t.Fatalf("want %v, got %v", want, balance)
	}
}

func TestGenesisUnknownToken(t *testing.T) {
	const genesis = `{
		"cash": [
			{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": ["1 STK"]}
		]
	}`
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	err := Initializer{}.FromGenesis(opts, weave.GenesisParams{}, store.MemStore())
	assert.IsErr(t, ErrUnknownToken, err)
}

func TestGenesisEmpty(t *testing.T) {
	err := Initializer{}.FromGenesis(weave.Options{}, weave.GenesisParams{}, store.MemStore())
	if err != nil {
		t.Fatalf("empty genesis: %s", err)
	}
	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(`{"tokens": 4}`), &opts))
	err = Initializer{}.FromGenesis(opts, weave.GenesisParams{}, store.MemStore())
	assert.IsErr(t, errors.ErrInput, err)
}
