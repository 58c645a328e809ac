package operations

import (
	"encoding/json"
	"errors"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/util"
)

var ErrInvalidAuthority = errors.New("invalid authority")

type AccountAuth struct {
	Account string
	Weight  uint16
}

type KeyAuth struct {
	Key    crypto.PublicKey
	Weight uint16
}

// Authority is satisfied when the weights of the signing keys and accounts
// add up to WeightThreshold.
type Authority struct {
	WeightThreshold uint32        `json:"weight_threshold"`
	AccountAuths    []AccountAuth `json:"account_auths"`
	KeyAuths        []KeyAuth     `json:"key_auths"`
}

// AuthorityFromKey is the single key authority used for new accounts.
func AuthorityFromKey(key crypto.PublicKey) Authority {
	return Authority{
		WeightThreshold: 1,
		AccountAuths:    []AccountAuth{},
		KeyAuths:        []KeyAuth{{Key: key, Weight: 1}},
	}
}

// WithPrefix returns a copy of a with every key shown with prefix.
func (a Authority) WithPrefix(prefix string) Authority {
	keys := make([]KeyAuth, len(a.KeyAuths))
	for n, auth := range a.KeyAuths {
		keys[n] = KeyAuth{Key: auth.Key.WithPrefix(prefix), Weight: auth.Weight}
	}
	a.KeyAuths = keys
	a.AccountAuths = append([]AccountAuth{}, a.AccountAuths...)
	return a
}

func (a Authority) Serialize(data *[]byte) {
	util.PutUint32(a.WeightThreshold, data)
	util.PutVarint32(uint32(len(a.AccountAuths)), data)
	for _, auth := range a.AccountAuths {
		util.PutString(auth.Account, data)
		util.PutUint16(auth.Weight, data)
	}
	util.PutVarint32(uint32(len(a.KeyAuths)), data)
	for _, auth := range a.KeyAuths {
		*data = append(*data, auth.Key.Key[:]...)
		util.PutUint16(auth.Weight, data)
	}
}

func (a Authority) MarshalJSON() ([]byte, error) {
	type authority Authority
	if a.AccountAuths == nil {
		a.AccountAuths = []AccountAuth{}
	}
	if a.KeyAuths == nil {
		a.KeyAuths = []KeyAuth{}
	}
	return json.Marshal(authority(a))
}

func (a AccountAuth) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{a.Account, a.Weight})
}

func (a *AccountAuth) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil || len(tuple) != 2 {
		return ErrInvalidAuthority
	}
	if err := json.Unmarshal(tuple[0], &a.Account); err != nil {
		return ErrInvalidAuthority
	}
	if err := json.Unmarshal(tuple[1], &a.Weight); err != nil {
		return ErrInvalidAuthority
	}
	return nil
}

func (k KeyAuth) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{k.Key, k.Weight})
}

func (k *KeyAuth) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil || len(tuple) != 2 {
		return ErrInvalidAuthority
	}
	if err := json.Unmarshal(tuple[0], &k.Key); err != nil {
		return ErrInvalidAuthority
	}
	if err := json.Unmarshal(tuple[1], &k.Weight); err != nil {
		return ErrInvalidAuthority
	}
	return nil
}
