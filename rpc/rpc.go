/*
Package rpc is the JSON-RPC 2.0 transport to network nodes.

Every request uses the condenser "call" form

	{"jsonrpc":"2.0","id":"<uuid>","method":"call","params":[api, method, params]}

A Caller returns a *NetworkError when the node could not be reached or
answered garbage, and a *RPCError when the node answered with a JSON-RPC
error object. Both unwrap to their causes; RPCError also matches ErrRejected.
*/
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Caller performs one remote procedure call and decodes the result into
// result, which may be nil. Implementations are safe for concurrent use.
type Caller interface {
	Call(ctx context.Context, api, method string, params, result any) error
}

// ErrRejected matches every error reported by a node.
var ErrRejected = errors.New("rejected by node")

type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

func NewRequest(id, api, method string, params any) Request {
	if params == nil {
		params = []any{}
	}
	return Request{JSONRPC: "2.0", ID: id, Method: "call", Params: []any{api, method, params}}
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is an error object returned by a node, typically a transaction
// that failed validation.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (e *RPCError) Is(target error) bool {
	return target == ErrRejected
}

// NetworkError is a failure to obtain a well formed answer.
type NetworkError struct {
	Method string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.Method, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Decode unpacks a response into result.
func (r *Response) Decode(method string, result any) error {
	if r.Error != nil {
		return r.Error
	}
	if result == nil || len(r.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Result, result); err != nil {
		return &NetworkError{Method: method, Err: fmt.Errorf("could not decode result: %w", err)}
	}
	return nil
}
