package operations

import (
	"encoding/json"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/asset"
	"github.com/freehandle/minddapp/util"
)

// AccountUpdate replaces the authorities that are not nil, the memo key and
// the json metadata of Account.
type AccountUpdate struct {
	Account      string           `json:"account"`
	Owner        *Authority       `json:"owner,omitempty"`
	Active       *Authority       `json:"active,omitempty"`
	Posting      *Authority       `json:"posting,omitempty"`
	MemoKey      crypto.PublicKey `json:"memo_key"`
	JSONMetadata string           `json:"json_metadata"`
}

func (a *AccountUpdate) Kind() byte {
	return IAccountUpdate
}

func (a *AccountUpdate) Name() string {
	return "account_update"
}

func putOptionalAuthority(authority *Authority, data *[]byte) {
	if authority == nil {
		util.PutBool(false, data)
		return
	}
	util.PutBool(true, data)
	authority.Serialize(data)
}

func (a *AccountUpdate) Serialize(data *[]byte) {
	util.PutString(a.Account, data)
	putOptionalAuthority(a.Owner, data)
	putOptionalAuthority(a.Active, data)
	putOptionalAuthority(a.Posting, data)
	*data = append(*data, a.MemoKey.Key[:]...)
	util.PutString(a.JSONMetadata, data)
}

type AccountCreateWithDelegation struct {
	Fee            asset.Asset      `json:"fee"`
	Delegation     asset.Asset      `json:"delegation"`
	Creator        string           `json:"creator"`
	NewAccountName string           `json:"new_account_name"`
	Owner          Authority        `json:"owner"`
	Active         Authority        `json:"active"`
	Posting        Authority        `json:"posting"`
	MemoKey        crypto.PublicKey `json:"memo_key"`
	JSONMetadata   string           `json:"json_metadata"`
}

func (a *AccountCreateWithDelegation) Kind() byte {
	return IAccountCreateWithDelegation
}

func (a *AccountCreateWithDelegation) Name() string {
	return "account_create_with_delegation"
}

func (a *AccountCreateWithDelegation) Serialize(data *[]byte) {
	a.Fee.Serialize(data)
	a.Delegation.Serialize(data)
	util.PutString(a.Creator, data)
	util.PutString(a.NewAccountName, data)
	a.Owner.Serialize(data)
	a.Active.Serialize(data)
	a.Posting.Serialize(data)
	*data = append(*data, a.MemoKey.Key[:]...)
	util.PutString(a.JSONMetadata, data)
	// extensions
	util.PutVarint32(0, data)
}

func (a *AccountCreateWithDelegation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Fee            asset.Asset      `json:"fee"`
		Delegation     asset.Asset      `json:"delegation"`
		Creator        string           `json:"creator"`
		NewAccountName string           `json:"new_account_name"`
		Owner          Authority        `json:"owner"`
		Active         Authority        `json:"active"`
		Posting        Authority        `json:"posting"`
		MemoKey        crypto.PublicKey `json:"memo_key"`
		JSONMetadata   string           `json:"json_metadata"`
		Extensions     []any            `json:"extensions"`
	}{
		Fee:            a.Fee,
		Delegation:     a.Delegation,
		Creator:        a.Creator,
		NewAccountName: a.NewAccountName,
		Owner:          a.Owner,
		Active:         a.Active,
		Posting:        a.Posting,
		MemoKey:        a.MemoKey,
		JSONMetadata:   a.JSONMetadata,
		Extensions:     []any{},
	})
}
