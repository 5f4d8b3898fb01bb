package orm

import (
	"github.com/iov-one/stakeweave/errors"
	amino "github.com/tendermint/go-amino"
)

var testCdc = amino.NewCodec()

// counter is a minimal model used to exercise buckets.
type counter struct {
	Count int64
}

func (c *counter) Marshal() ([]byte, error) {
	return testCdc.MarshalBinaryBare(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return testCdc.UnmarshalBinaryBare(raw, c)
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	cpy := *c
	return &cpy
}
