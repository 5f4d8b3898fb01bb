package utils

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// Recovery converts a panic raised further down the chain into an ErrPanic
// and logs it. Place it right after Logging so that a recovered panic is
// still reported with the transaction path.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (res *weave.CheckResult, err error) {
	defer recovered(ctx, "check", &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (res *weave.DeliverResult, err error) {
	defer recovered(ctx, "deliver", &err)
	return next.Deliver(ctx, db, tx)
}

func recovered(ctx weave.Context, phase string, err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(errors.ErrPanic, "%s: %v", phase, r)
		weave.GetLogger(ctx).Error("recovered panic", "phase", phase, "panic", r)
	}
}
