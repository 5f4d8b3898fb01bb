package app

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/x/cash"
	"github.com/iov-one/stakeweave/x/pool"
	"github.com/iov-one/stakeweave/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*weave.Msg)(nil), nil)
	cash.RegisterCodec(cdc)
	sigs.RegisterCodec(cdc)
	pool.RegisterCodec(cdc)
}
