package operations

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownOperation = errors.New("unknown operation")

func newOperation(name string) Operation {
	switch name {
	case "vote":
		return &Vote{}
	case "comment":
		return &Comment{}
	case "transfer":
		return &Transfer{}
	case "account_update":
		return &AccountUpdate{}
	case "custom_json":
		return &CustomJSON{}
	case "comment_options":
		return &CommentOptions{}
	case "delegate_vesting_shares":
		return &DelegateVestingShares{}
	case "account_create_with_delegation":
		return &AccountCreateWithDelegation{}
	}
	return nil
}

// UnmarshalJSON decodes the [name, payload] tuple produced by MarshalJSON.
func UnmarshalJSON(data []byte) (Operation, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil || len(tuple) != 2 {
		return nil, fmt.Errorf("operation must be a [name, payload] tuple")
	}
	var name string
	if err := json.Unmarshal(tuple[0], &name); err != nil {
		return nil, fmt.Errorf("invalid operation name: %w", err)
	}
	op := newOperation(name)
	if op == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if err := json.Unmarshal(tuple[1], op); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", name, err)
	}
	return op, nil
}
