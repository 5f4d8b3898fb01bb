package x

import (
	"context"
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/weavetest"
	"github.com/stretchr/testify/assert"
)

func TestAuthenticators(t *testing.T) {
	owner := weavetest.NewCondition()
	staker := weavetest.NewCondition()
	stranger := weavetest.NewCondition()

	sigsAuth := &weavetest.CtxAuth{Key: "sigs"}
	otherAuth := &weavetest.CtxAuth{Key: "other"}
	signed := sigsAuth.SetConditions(context.Background(), staker, owner)

	cases := map[string]struct {
		ctx      weave.Context
		auth     Authenticator
		wantMain weave.Condition
		wantAll  []weave.Condition
	}{
		"nothing signed": {
			ctx:  context.Background(),
			auth: &weavetest.Auth{},
		},
		"static signer": {
			ctx:      context.Background(),
			auth:     &weavetest.Auth{Signer: owner},
			wantMain: owner,
			wantAll:  []weave.Condition{owner},
		},
		"context signers keep their order": {
			ctx:      signed,
			auth:     sigsAuth,
			wantMain: staker,
			wantAll:  []weave.Condition{staker, owner},
		},
		"context signers under another key are invisible": {
			ctx:  signed,
			auth: otherAuth,
		},
		"chain reports the first authenticator first": {
			ctx:      signed,
			auth:     ChainAuth(otherAuth, &weavetest.Auth{Signer: owner}, sigsAuth),
			wantMain: owner,
			wantAll:  []weave.Condition{owner, staker},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantMain, MainSigner(tc.ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))
			for _, c := range tc.wantAll {
				assert.True(t, tc.auth.HasAddress(tc.ctx, c.Address()))
			}
			assert.False(t, tc.auth.HasAddress(tc.ctx, stranger.Address()))
		})
	}
}

func TestSignerAddress(t *testing.T) {
	staker := weavetest.NewCondition()
	auth := &weavetest.Auth{Signer: staker}
	ctx := context.Background()

	addr, err := SignerAddress(ctx, auth)
	assert.NoError(t, err)
	assert.Equal(t, staker.Address(), addr)

	_, err = SignerAddress(ctx, &weavetest.Auth{})
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestRequireAddress(t *testing.T) {
	owner := weavetest.NewCondition()
	auth := ChainAuth(&weavetest.Auth{Signer: owner})
	ctx := context.Background()

	assert.NoError(t, RequireAddress(ctx, auth, owner.Address()))
	assert.True(t, errors.ErrUnauthorized.Is(RequireAddress(ctx, auth, weavetest.NewCondition().Address())))
	assert.True(t, errors.ErrUnauthorized.Is(RequireAddress(ctx, auth, nil)))
}
