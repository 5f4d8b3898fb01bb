package utils

import (
	weave "github.com/iov-one/stakeweave"
)

// PathKey is the tag under which ActionTagger publishes the message path.
const PathKey = "path"

// ActionTagger tags every successfully delivered transaction with the path
// of its message, so that clients can subscribe to, say, all pool/claim
// transactions.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.AddTag(PathKey, msg.Path())
	return res, nil
}
