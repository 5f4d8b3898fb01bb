package app

import (
	"encoding/json"
	"fmt"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/crypto"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/x/cash"
	"github.com/iov-one/stakeweave/x/pool"
)

const (
	// StakeTicker is the currency deposited by the stake holders in a
	// development genesis.
	StakeTicker = "STK"
	// RewardTicker is the currency distributed by a development genesis.
	RewardTicker = "RWD"

	devMaxDuration = 365 * 24 * 60 * 60
)

// Genesis is the app_state layout read by the initializers of this
// application.
type Genesis struct {
	Tokens []cash.GenesisToken   `json:"tokens"`
	Cash   []cash.GenesisAccount `json:"cash"`
	Pool   pool.GenesisPool      `json:"pool"`
	Conf   GenesisConf           `json:"conf"`
}

// GenesisConf holds the configuration of each extension.
type GenesisConf struct {
	Pool pool.Configuration `json:"pool"`
}

// DevGenesis returns the options of a development chain. The owner
// administers the pool and holds the initial supply of both currencies.
func DevGenesis(owner weave.Address) Genesis {
	supply := func(ticker string, decimals int) *coin.Coin {
		amount, err := coin.ParseAmount(fmt.Sprintf("1000000%0*d", decimals, 0))
		if err != nil {
			panic(err)
		}
		return &coin.Coin{Ticker: ticker, Amount: amount}
	}
	return Genesis{
		Tokens: []cash.GenesisToken{
			{Ticker: StakeTicker, Name: "Stake token", Decimals: 18},
			{Ticker: RewardTicker, Name: "Reward token", Decimals: 6},
		},
		Cash: []cash.GenesisAccount{
			{Address: owner, Coins: coin.Coins{supply(StakeTicker, 18), supply(RewardTicker, 6)}},
		},
		Pool: pool.GenesisPool{
			StakeTicker:  StakeTicker,
			RewardTicker: RewardTicker,
		},
		Conf: GenesisConf{
			Pool: pool.Configuration{
				Metadata:    &weave.Metadata{Schema: 1},
				Owner:       owner,
				MaxDuration: devMaxDuration,
			},
		},
	}
}

// GenInitOptions will produce the options of a development chain. The
// owner address can be given as the only argument, otherwise a new key is
// generated and printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owner weave.Address
	switch len(args) {
	case 0:
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		owner = addr
	case 1:
		addr, err := weave.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		owner = addr
	default:
		return nil, errors.Wrap(errors.ErrInput, "usage: init [<owner address>]")
	}
	raw, err := json.MarshalIndent(DevGenesis(owner), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in a client to use them
func GenerateCoinKey() (weave.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return addr, string(keys), nil
}
