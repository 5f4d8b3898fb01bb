package cash

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
)

const maxMemoSize int = 128

var _ weave.Msg = (*SendMsg)(nil)

// SendMsg moves coins from the source wallet to the destination wallet.
type SendMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Source      weave.Address   `json:"source"`
	Destination weave.Address   `json:"destination"`
	Amount      *coin.Coin      `json:"amount"`
	Memo        string          `json:"memo"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *SendMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Amount", validatePositive(m.Amount))
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return errs
}

var _ weave.Msg = (*ApproveMsg)(nil)

// ApproveMsg sets the amount that the spender is allowed to move out of the
// owner wallet. Any previous allowance of the same currency is replaced. A
// zero amount revokes the allowance.
type ApproveMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Owner    weave.Address   `json:"owner"`
	Spender  weave.Address   `json:"spender"`
	Amount   *coin.Coin      `json:"amount"`
}

// Path returns the routing path for this message
func (ApproveMsg) Path() string {
	return "cash/approve"
}

func (m *ApproveMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *ApproveMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	if m.Amount == nil {
		errs = errors.AppendField(errs, "Amount", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	if m.Owner.Equals(m.Spender) {
		errs = errors.AppendField(errs, "Spender", errors.Wrap(errors.ErrInput, "owner cannot approve itself"))
	}
	return errs
}

func validatePositive(c *coin.Coin) error {
	if coin.IsEmpty(c) {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return c.Validate()
}
