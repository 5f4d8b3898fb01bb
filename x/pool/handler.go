package pool

import (
	"strconv"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/gconf"
	"github.com/iov-one/stakeweave/x"
)

const (
	holderOpCost int64 = 100
	adminOpCost  int64 = 50
)

// RegisterRoutes registers handlers for all pool messages. Funds are moved
// using given gateway.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, gateway Gateway) {
	ctrl := NewController(gateway)
	r.Handle(&StakeMsg{}, &stakeHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UnstakeMsg{}, &unstakeHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ClaimMsg{}, &claimHandler{auth: auth, ctrl: ctrl})
	r.Handle(&EmergencyWithdrawMsg{}, &emergencyWithdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(&AddRewardsMsg{}, &addRewardsHandler{auth: auth, ctrl: ctrl})
	r.Handle(&RemoveRewardsMsg{}, &removeRewardsHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SetDurationToMsg{}, &setDurationHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SetDurationUntilMsg{}, &setDurationHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SweepMsg{}, &sweepHandler{auth: auth, ctrl: ctrl})
	r.Handle(&PauseMsg{}, &pauseHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UnpauseMsg{}, &pauseHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth, nil))
}

// requireAdmin ensures the transaction was signed by the pool owner.
func requireAdmin(ctx weave.Context, db weave.ReadOnlyKVStore, auth x.Authenticator) (weave.Address, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := x.RequireAddress(ctx, auth, conf.Owner); err != nil {
		return nil, errors.Wrap(err, "pool owner")
	}
	return conf.Owner, nil
}

// deliverDone records the operation in metrics and, on success, the new
// pool totals.
func (c Controller) deliverDone(db weave.ReadOnlyKVStore, op string, err error) {
	observe(op, err)
	if err != nil {
		return
	}
	if st, err := c.State(db); err == nil {
		reportState(st)
	}
}

func actionResult(action string, actor weave.Address, amount coin.Amount) *weave.DeliverResult {
	res := &weave.DeliverResult{}
	res.AddTag("action", action)
	res.AddTag("actor", actor.String())
	res.AddTag("amount", amount.String())
	return res
}

type stakeHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *stakeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: holderOpCost}, nil
}

func (h *stakeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "stake", err) }()
	holder, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Stake(ctx, db, holder, msg.Amount); err != nil {
		return nil, err
	}
	return actionResult("stake", holder, msg.Amount), nil
}

func (h *stakeHandler) validate(ctx weave.Context, tx weave.Tx) (weave.Address, *StakeMsg, error) {
	var msg StakeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	holder, err := x.SignerAddress(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return holder, &msg, nil
}

type unstakeHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *unstakeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: holderOpCost}, nil
}

func (h *unstakeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "unstake", err) }()
	holder, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Unstake(ctx, db, holder, msg.Amount); err != nil {
		return nil, err
	}
	return actionResult("unstake", holder, msg.Amount), nil
}

func (h *unstakeHandler) validate(ctx weave.Context, tx weave.Tx) (weave.Address, *UnstakeMsg, error) {
	var msg UnstakeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	holder, err := x.SignerAddress(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return holder, &msg, nil
}

type claimHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *claimHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: holderOpCost}, nil
}

func (h *claimHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "claim", err) }()
	holder, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	paid, err := h.ctrl.Claim(ctx, db, holder)
	if err != nil {
		return nil, err
	}
	return actionResult("claim", holder, paid), nil
}

func (h *claimHandler) validate(ctx weave.Context, tx weave.Tx) (weave.Address, error) {
	var msg ClaimMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return x.SignerAddress(ctx, h.auth)
}

type emergencyWithdrawHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *emergencyWithdrawHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: holderOpCost}, nil
}

func (h *emergencyWithdrawHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "emergency_withdraw", err) }()
	holder, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	returned, forfeited, err := h.ctrl.EmergencyWithdraw(ctx, db, holder)
	if err != nil {
		return nil, err
	}
	res = actionResult("emergency_withdraw", holder, returned)
	res.AddTag("forfeited", forfeited.String())
	return res, nil
}

func (h *emergencyWithdrawHandler) validate(ctx weave.Context, tx weave.Tx) (weave.Address, error) {
	var msg EmergencyWithdrawMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return x.SignerAddress(ctx, h.auth)
}

type addRewardsHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *addRewardsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: adminOpCost}, nil
}

func (h *addRewardsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "add_rewards", err) }()
	admin, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.AddRewards(ctx, db, admin, msg.Amount, msg.Duration); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("rewards added", "amount", msg.Amount.String(), "duration", msg.Duration)
	res = actionResult("add_rewards", admin, msg.Amount)
	res.AddTag("duration", strconv.FormatUint(msg.Duration, 10))
	return res, nil
}

func (h *addRewardsHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, *AddRewardsMsg, error) {
	var msg AddRewardsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	admin, err := requireAdmin(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return admin, &msg, nil
}

type removeRewardsHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *removeRewardsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: adminOpCost}, nil
}

func (h *removeRewardsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "remove_rewards", err) }()
	admin, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	dest := msg.Destination
	if dest == nil {
		dest = admin
	}
	withdrawn, err := h.ctrl.RemoveRewards(ctx, db, dest)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("rewards removed", "amount", withdrawn.String(), "destination", dest)
	return actionResult("remove_rewards", admin, withdrawn), nil
}

func (h *removeRewardsHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, *RemoveRewardsMsg, error) {
	var msg RemoveRewardsMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	admin, err := requireAdmin(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return admin, &msg, nil
}

// setDurationHandler handles both SetDurationToMsg and SetDurationUntilMsg.
type setDurationHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *setDurationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: adminOpCost}, nil
}

func (h *setDurationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "set_duration", err) }()
	admin, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	switch msg := msg.(type) {
	case *SetDurationToMsg:
		err = h.ctrl.SetDurationTo(ctx, db, msg.Duration)
	case *SetDurationUntilMsg:
		err = h.ctrl.SetDurationUntil(ctx, db, msg.Until)
	default:
		err = errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	if err != nil {
		return nil, err
	}
	st, err := h.ctrl.State(db)
	if err != nil {
		return nil, err
	}
	res = &weave.DeliverResult{}
	res.AddTag("action", "set_duration")
	res.AddTag("actor", admin.String())
	res.AddTag("duration", strconv.FormatUint(st.StartTime.SecondsUntil(st.EndTime), 10))
	return res, nil
}

func (h *setDurationHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, weave.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot get transaction message")
	}
	switch msg.(type) {
	case *SetDurationToMsg, *SetDurationUntilMsg:
	default:
		return nil, nil, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	admin, err := requireAdmin(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return admin, msg, nil
}

type sweepHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *sweepHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: adminOpCost}, nil
}

func (h *sweepHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "sweep", err) }()
	admin, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	swept, err := h.ctrl.Sweep(ctx, db, msg.Ticker, msg.Destination)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("reserve swept", "ticker", msg.Ticker, "amount", swept.String())
	res = actionResult("sweep", admin, swept)
	res.AddTag("ticker", msg.Ticker)
	return res, nil
}

func (h *sweepHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, *SweepMsg, error) {
	var msg SweepMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	admin, err := requireAdmin(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return admin, &msg, nil
}

// pauseHandler handles both PauseMsg and UnpauseMsg.
type pauseHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *pauseHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: adminOpCost}, nil
}

func (h *pauseHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer func() { h.ctrl.deliverDone(db, "pause", err) }()
	admin, paused, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetPaused(ctx, db, paused); err != nil {
		return nil, err
	}
	action := "unpause"
	if paused {
		action = "pause"
	}
	weave.GetLogger(ctx).Info("pool " + action)
	res = &weave.DeliverResult{}
	res.AddTag("action", action)
	res.AddTag("actor", admin.String())
	return res, nil
}

func (h *pauseHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, bool, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, false, errors.Wrap(err, "cannot get transaction message")
	}
	var paused bool
	switch msg.(type) {
	case *PauseMsg:
		paused = true
	case *UnpauseMsg:
		paused = false
	default:
		return nil, false, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	if err := msg.Validate(); err != nil {
		return nil, false, errors.Wrap(err, "invalid message")
	}
	admin, err := requireAdmin(ctx, db, h.auth)
	if err != nil {
		return nil, false, err
	}
	return admin, paused, nil
}
