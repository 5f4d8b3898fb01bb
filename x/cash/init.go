package cash

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
)

// GenesisAccount is used to parse the json from genesis file
// use weave.Address, so address in hex, not base64
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Coins   coin.Coins    `json:"coins"`
}

// GenesisToken declares a currency in the genesis file.
type GenesisToken struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Decimals uint32 `json:"decimals"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis registers all tokens and then mints initial wallet content.
func (Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, kv weave.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions("tokens", &tokens); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var accts []GenesisAccount
	if err := opts.ReadOptions("cash", &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ctrl := NewController()
	for i, t := range tokens {
		token := Token{
			Metadata: &weave.Metadata{Schema: 1},
			Ticker:   t.Ticker,
			Name:     t.Name,
			Decimals: t.Decimals,
		}
		if err := ctrl.RegisterToken(kv, &token); err != nil {
			return errors.Wrapf(err, "token #%d", i)
		}
	}
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		for _, c := range acct.Coins {
			if err := ctrl.CoinMint(kv, acct.Address, *c); err != nil {
				return errors.Wrapf(err, "account #%d", i)
			}
		}
	}
	return nil
}
