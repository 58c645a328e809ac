/*
Package operations implements the operations of the network that minddapp
broadcasts.

Every operation is a plain struct implementing the Operation interface

	type Operation interface {
		Kind() byte
		Name() string
		Serialize(data *[]byte)
	}

Kind is the position of the operation within the network's static variant
and prefixes the binary form, Name tags the JSON form, which is the tuple

	["comment", {"author": "alice", ...}]

Operations are values: once appended to a transaction they are not modified.
Payload correctness (existing accounts, funds, permlink rules) is validated by
the network, not here.
*/
package operations

import (
	"encoding/json"

	"github.com/freehandle/minddapp/util"
)

// Operation ids within the network static variant. Ids not listed are not
// broadcast by minddapp.
const (
	IVote                        byte = 0
	IComment                     byte = 1
	ITransfer                    byte = 2
	IAccountUpdate               byte = 10
	ICustomJSON                  byte = 18
	ICommentOptions              byte = 19
	IDelegateVestingShares       byte = 40
	IAccountCreateWithDelegation byte = 41
)

type Operation interface {
	Kind() byte
	Name() string
	Serialize(data *[]byte)
}

// Put appends the variant id and the payload of op.
func Put(op Operation, data *[]byte) {
	util.PutVarint32(uint32(op.Kind()), data)
	op.Serialize(data)
}

// MarshalJSON encodes op as its [name, payload] tuple.
func MarshalJSON(op Operation) ([]byte, error) {
	return json.Marshal([]any{op.Name(), op})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
