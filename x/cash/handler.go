package cash

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/x"
)

// Gas reserved by Check for each message type.
const (
	sendGas    int64 = 100
	approveGas int64 = 50
)

// RegisterRoutes registers the send and approve handlers.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl BaseController) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, ctrl))
	r.Handle(&ApproveMsg{}, NewApproveHandler(auth, ctrl))
}

// RegisterQuery exposes the wallets, allowances and tokens buckets.
func RegisterQuery(qr weave.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewAllowanceBucket().Register("allowances", qr)
	NewTokenBucket().Register("tokens", qr)
}

// SendHandler moves coins out of the wallet of the signer.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, ctrl Controller) SendHandler {
	return SendHandler{auth: auth, ctrl: ctrl}
}

// Check does not look at the balance. A send that is short of funds fails
// in Deliver.
func (h SendHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg SendMsg
	if err := loadSigned(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendGas}, nil
}

func (h SendHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg SendMsg
	if err := loadSigned(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return transferResult("send", msg.Source, *msg.Amount), nil
}

// ApproveHandler sets how much a spender may pull from the signer wallet.
type ApproveHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ weave.Handler = ApproveHandler{}

func NewApproveHandler(auth x.Authenticator, ctrl BaseController) ApproveHandler {
	return ApproveHandler{auth: auth, ctrl: ctrl}
}

func (h ApproveHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg ApproveMsg
	if err := loadSigned(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Token(db, msg.Amount.Ticker); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: approveGas}, nil
}

func (h ApproveHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg ApproveMsg
	if err := loadSigned(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	if err := h.ctrl.Approve(db, msg.Owner, msg.Spender, *msg.Amount); err != nil {
		return nil, err
	}
	return transferResult("approve", msg.Owner, *msg.Amount), nil
}

// signedMsg is a message that names the account it acts on.
type signedMsg interface {
	weave.Msg
	account() weave.Address
}

func (m *SendMsg) account() weave.Address    { return m.Source }
func (m *ApproveMsg) account() weave.Address { return m.Owner }

// loadSigned loads msg from tx and requires the signature of the account
// the message acts on.
func loadSigned(ctx weave.Context, auth x.Authenticator, tx weave.Tx, msg signedMsg) error {
	if err := weave.LoadMsg(tx, msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	if err := x.RequireAddress(ctx, auth, msg.account()); err != nil {
		return errors.Wrap(err, "account owner")
	}
	return nil
}

func transferResult(action string, actor weave.Address, amount coin.Coin) *weave.DeliverResult {
	res := &weave.DeliverResult{}
	res.AddTag("action", action)
	res.AddTag("actor", actor.String())
	res.AddTag("amount", amount.String())
	return res
}
