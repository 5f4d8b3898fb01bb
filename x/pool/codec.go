package pool

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers all messages handled by this extension.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&StakeMsg{}, pathStakeMsg, nil)
	c.RegisterConcrete(&UnstakeMsg{}, pathUnstakeMsg, nil)
	c.RegisterConcrete(&ClaimMsg{}, pathClaimMsg, nil)
	c.RegisterConcrete(&EmergencyWithdrawMsg{}, pathEmergencyWithdrawMsg, nil)
	c.RegisterConcrete(&AddRewardsMsg{}, pathAddRewardsMsg, nil)
	c.RegisterConcrete(&RemoveRewardsMsg{}, pathRemoveRewardsMsg, nil)
	c.RegisterConcrete(&SetDurationToMsg{}, pathSetDurationToMsg, nil)
	c.RegisterConcrete(&SetDurationUntilMsg{}, pathSetDurationUntilMsg, nil)
	c.RegisterConcrete(&SweepMsg{}, pathSweepMsg, nil)
	c.RegisterConcrete(&PauseMsg{}, pathPauseMsg, nil)
	c.RegisterConcrete(&UnpauseMsg{}, pathUnpauseMsg, nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, pathUpdateConfigurationMsg, nil)
}
