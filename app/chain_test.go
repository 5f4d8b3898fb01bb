package app

import (
	"context"
	"testing"

	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/weavetest"
	"github.com/iov-one/stakeweave/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	c1 := &weavetest.Decorator{}
	c2 := &weavetest.Decorator{}
	c3 := &weavetest.Decorator{}
	h := &weavetest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		nil,
		c3,
	).WithHandler(h)

	ctx := context.Background()
	tx := &weavetest.Tx{}

	_, err := stack.Check(ctx, nil, tx)
	require.NoError(t, err)
	_, err = stack.Deliver(ctx, nil, tx)
	require.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// Failing decorator stops the chain.
	c2.CheckErr = errors.ErrUnauthorized
	_, err = stack.Check(ctx, nil, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainRecoversPanic(t *testing.T) {
	stack := ChainDecorators(utils.NewRecovery()).WithHandler(weavetest.PanicHandler{Msg: "boom"})
	_, err := stack.Deliver(context.Background(), nil, &weavetest.Tx{})
	assert.True(t, errors.ErrPanic.Is(err))
}
