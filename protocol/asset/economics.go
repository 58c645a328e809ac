package asset

import (
	"github.com/shopspring/decimal"
)

// Account creation protocol constants.
const (
	CreateAccountWithSteemModifier = 30
	CreateAccountDelegationRatio   = 5
)

// delegationBuffer is added to the target delegation since the share price
// moves between the properties fetch and block inclusion.
var delegationBuffer = MustFromString("0.000002 VESTS")

// AccountCreationCost completes the fee/delegation pair paid to create an
// account with delegation. A nil argument is computed from the vesting share
// price and the chain's account creation fee; when both are given they are
// returned unchanged.
func AccountCreationCost(sharePrice Price, creationFee Asset, fee, delegation *Asset) (Asset, Asset, error) {
	if fee != nil && delegation != nil {
		return *fee, *delegation, nil
	}
	ratio := decimal.NewFromInt(CreateAccountDelegationRatio)
	target, err := sharePrice.Convert(creationFee.Multiply(decimal.NewFromInt(CreateAccountWithSteemModifier * CreateAccountDelegationRatio)))
	if err != nil {
		return Asset{}, Asset{}, err
	}
	if target, err = target.Add(delegationBuffer); err != nil {
		return Asset{}, Asset{}, err
	}
	if delegation != nil {
		remaining, err := target.Subtract(*delegation)
		if err != nil {
			return Asset{}, Asset{}, err
		}
		converted, err := sharePrice.Convert(remaining)
		if err != nil {
			return Asset{}, Asset{}, err
		}
		computed, err := Max(converted.Divide(ratio), creationFee)
		if err != nil {
			return Asset{}, Asset{}, err
		}
		return computed, *delegation, nil
	}
	paid := creationFee
	if fee != nil {
		paid = *fee
	}
	converted, err := sharePrice.Convert(paid.Multiply(ratio))
	if err != nil {
		return Asset{}, Asset{}, err
	}
	remaining, err := target.Subtract(converted)
	if err != nil {
		return Asset{}, Asset{}, err
	}
	computed, err := Max(remaining, FromInt(0, VESTS))
	if err != nil {
		return Asset{}, Asset{}, err
	}
	return paid, computed, nil
}
