package sigs

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

var _ weave.Msg = (*BumpSequenceMsg)(nil)

// BumpSequenceMsg increments the sequence of the main signer. Each processed
// transaction already increments the sequence by one so the total increment
// is equal to Increment.
type BumpSequenceMsg struct {
	Metadata  *weave.Metadata `json:"metadata"`
	Increment uint32          `json:"increment"`
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (m *BumpSequenceMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *BumpSequenceMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *BumpSequenceMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Increment < minSequenceIncrement {
		errs = errors.AppendField(errs, "Increment", errors.Wrapf(errors.ErrMsg, "must be at least %d", minSequenceIncrement))
	}
	if m.Increment > maxSequenceIncrement {
		errs = errors.AppendField(errs, "Increment", errors.Wrapf(errors.ErrMsg, "must not be greater than %d", maxSequenceIncrement))
	}
	return errs
}
