package operations

import (
	"github.com/freehandle/minddapp/protocol/asset"
	"github.com/freehandle/minddapp/util"
)

type Transfer struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount asset.Asset `json:"amount"`
	Memo   string      `json:"memo"`
}

func (t *Transfer) Kind() byte {
	return ITransfer
}

func (t *Transfer) Name() string {
	return "transfer"
}

func (t *Transfer) Serialize(data *[]byte) {
	util.PutString(t.From, data)
	util.PutString(t.To, data)
	t.Amount.Serialize(data)
	util.PutString(t.Memo, data)
}

// DelegateVestingShares sets the delegation from Delegator to Delegatee to
// VestingShares. A zero amount removes the delegation.
type DelegateVestingShares struct {
	Delegator     string      `json:"delegator"`
	Delegatee     string      `json:"delegatee"`
	VestingShares asset.Asset `json:"vesting_shares"`
}

func (d *DelegateVestingShares) Kind() byte {
	return IDelegateVestingShares
}

func (d *DelegateVestingShares) Name() string {
	return "delegate_vesting_shares"
}

func (d *DelegateVestingShares) Serialize(data *[]byte) {
	util.PutString(d.Delegator, data)
	util.PutString(d.Delegatee, data)
	d.VestingShares.Serialize(data)
}
