package pool

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
)

const (
	pathStakeMsg               = "pool/stake"
	pathUnstakeMsg             = "pool/unstake"
	pathClaimMsg               = "pool/claim"
	pathEmergencyWithdrawMsg   = "pool/emergency_withdraw"
	pathAddRewardsMsg          = "pool/add_rewards"
	pathRemoveRewardsMsg       = "pool/remove_rewards"
	pathSetDurationToMsg       = "pool/set_duration_to"
	pathSetDurationUntilMsg    = "pool/set_duration_until"
	pathSweepMsg               = "pool/sweep"
	pathPauseMsg               = "pool/pause"
	pathUnpauseMsg             = "pool/unpause"
	pathUpdateConfigurationMsg = "pool/update_configuration"
)

var (
	_ weave.Msg = (*StakeMsg)(nil)
	_ weave.Msg = (*UnstakeMsg)(nil)
	_ weave.Msg = (*ClaimMsg)(nil)
	_ weave.Msg = (*EmergencyWithdrawMsg)(nil)
	_ weave.Msg = (*AddRewardsMsg)(nil)
	_ weave.Msg = (*RemoveRewardsMsg)(nil)
	_ weave.Msg = (*SetDurationToMsg)(nil)
	_ weave.Msg = (*SetDurationUntilMsg)(nil)
	_ weave.Msg = (*SweepMsg)(nil)
	_ weave.Msg = (*PauseMsg)(nil)
	_ weave.Msg = (*UnpauseMsg)(nil)
	_ weave.Msg = (*UpdateConfigurationMsg)(nil)
)

// StakeMsg deposits stake currency of the signer into the pool.
type StakeMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Amount   coin.Amount     `json:"amount"`
}

func (StakeMsg) Path() string                  { return pathStakeMsg }
func (m *StakeMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *StakeMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *StakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Amount", validatePositive(m.Amount))
	return errs
}

// UnstakeMsg withdraws part of the signer stake.
type UnstakeMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Amount   coin.Amount     `json:"amount"`
}

func (UnstakeMsg) Path() string                  { return pathUnstakeMsg }
func (m *UnstakeMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *UnstakeMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *UnstakeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Amount", validatePositive(m.Amount))
	return errs
}

// ClaimMsg pays out rewards collected by the signer.
type ClaimMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
}

func (ClaimMsg) Path() string                  { return pathClaimMsg }
func (m *ClaimMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *ClaimMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *ClaimMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}

// EmergencyWithdrawMsg returns the whole signer stake without any rewards.
type EmergencyWithdrawMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
}

func (EmergencyWithdrawMsg) Path() string                  { return pathEmergencyWithdrawMsg }
func (m *EmergencyWithdrawMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *EmergencyWithdrawMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *EmergencyWithdrawMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}

// AddRewardsMsg funds the distribution with Amount of the reward currency
// and extends the distribution window by Duration seconds.
type AddRewardsMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Amount   coin.Amount     `json:"amount"`
	Duration uint64          `json:"duration"`
}

func (AddRewardsMsg) Path() string                  { return pathAddRewardsMsg }
func (m *AddRewardsMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *AddRewardsMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *AddRewardsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Amount", validatePositive(m.Amount))
	return errs
}

// RemoveRewardsMsg cancels the distribution. Rewards not yet distributed
// are sent to Destination or, if not set, to the signer.
type RemoveRewardsMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Destination weave.Address   `json:"destination"`
}

func (RemoveRewardsMsg) Path() string                  { return pathRemoveRewardsMsg }
func (m *RemoveRewardsMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *RemoveRewardsMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *RemoveRewardsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Destination != nil {
		errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	}
	return errs
}

// SetDurationToMsg ends the distribution window Duration seconds from now.
type SetDurationToMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Duration uint64          `json:"duration"`
}

func (SetDurationToMsg) Path() string                  { return pathSetDurationToMsg }
func (m *SetDurationToMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *SetDurationToMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *SetDurationToMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}

// SetDurationUntilMsg ends the distribution window at Until.
type SetDurationUntilMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Until    weave.UnixTime  `json:"until"`
}

func (SetDurationUntilMsg) Path() string                  { return pathSetDurationUntilMsg }
func (m *SetDurationUntilMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *SetDurationUntilMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *SetDurationUntilMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Until", m.Until.Validate())
	return errs
}

// SweepMsg sends funds held by the reserve that the pool does not account
// for to Destination.
type SweepMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Ticker      string          `json:"ticker"`
	Destination weave.Address   `json:"destination"`
}

func (SweepMsg) Path() string                  { return pathSweepMsg }
func (m *SweepMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *SweepMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *SweepMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !coin.IsCC(m.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

// PauseMsg stops stake, unstake and claim operations.
type PauseMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
}

func (PauseMsg) Path() string                  { return pathPauseMsg }
func (m *PauseMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *PauseMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *PauseMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}

// UnpauseMsg resumes a paused pool.
type UnpauseMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
}

func (UnpauseMsg) Path() string                  { return pathUnpauseMsg }
func (m *UnpauseMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *UnpauseMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *UnpauseMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}

// UpdateConfigurationMsg changes every non zero field of the configuration.
type UpdateConfigurationMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Patch    *Configuration  `json:"patch"`
}

func (UpdateConfigurationMsg) Path() string                  { return pathUpdateConfigurationMsg }
func (m *UpdateConfigurationMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		return errors.AppendField(errs, "Patch", errors.ErrEmpty)
	}
	if m.Patch.Owner != nil {
		errs = errors.AppendField(errs, "Patch.Owner", m.Patch.Owner.Validate())
	}
	return errs
}

func validatePositive(a coin.Amount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsZero() {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return nil
}
