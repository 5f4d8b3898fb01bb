package x

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// Authenticator tells a handler which conditions the current transaction
// satisfies. Handlers receive it in their constructor instead of reading
// x/sigs directly.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled.
	GetConditions(weave.Context) []weave.Condition
	HasAddress(weave.Context, weave.Address) bool
}

// ChainAuth merges the answers of several authenticators.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth{auths: auths}
}

type MultiAuth struct {
	auths []Authenticator
}

var _ Authenticator = MultiAuth{}

// GetConditions lists each condition once, keeping the first position it
// was reported at.
func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var all []weave.Condition
	for _, a := range m.auths {
		for _, c := range a.GetConditions(ctx) {
			if !hasPerm(all, c) {
				all = append(all, c)
			}
		}
	}
	return all
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, a := range m.auths {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

func hasPerm(all []weave.Condition, c weave.Condition) bool {
	for _, have := range all {
		if have.Equals(c) {
			return true
		}
	}
	return false
}

// MainSigner is the first authenticated condition, nil if there is none.
// Stake, unstake and claim act on behalf of the main signer.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

// SignerAddress is the address of MainSigner. An unsigned transaction gives
// ErrUnauthorized.
func SignerAddress(ctx weave.Context, auth Authenticator) (weave.Address, error) {
	c := MainSigner(ctx, auth)
	if c == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return c.Address(), nil
}

// RequireAddress fails with ErrUnauthorized unless addr is authenticated.
// An empty address is never authenticated.
func RequireAddress(ctx weave.Context, auth Authenticator, addr weave.Address) error {
	if len(addr) != 0 && auth.HasAddress(ctx, addr) {
		return nil
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", addr)
}
