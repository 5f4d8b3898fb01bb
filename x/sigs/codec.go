package sigs

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers all messages handled by this extension.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&BumpSequenceMsg{}, pathBumpSequenceMsg, nil)
}
