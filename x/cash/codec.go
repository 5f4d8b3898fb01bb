package cash

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers all messages declared by this extension so that
// they can be carried by a transaction.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&SendMsg{}, "cash/send", nil)
	c.RegisterConcrete(&ApproveMsg{}, "cash/approve", nil)
}
