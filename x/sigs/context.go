package sigs

import (
	"context"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/x"
)

type ctxKey struct{}

// Authenticate reads the signers verified by Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	conds, _ := ctx.Value(ctxKey{}).([]weave.Condition)
	return conds
}

func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}

func withSigners(ctx weave.Context, conds []weave.Condition) weave.Context {
	return context.WithValue(ctx, ctxKey{}, conds)
}
