package testnode

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/operations"
	"github.com/freehandle/minddapp/protocol/transaction"
	"github.com/freehandle/minddapp/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockID(t *testing.T) {
	id := BlockID(0x34)
	assert.Len(t, id, 40)
	assert.Equal(t, "00000034", id[:8])
	assert.NotEqual(t, BlockID(1), BlockID(2))
}

func TestBroadcastReference(t *testing.T) {
	chainID := make([]byte, 32)
	node := New(chainID)
	key := crypto.PrivateKeyFromSeed("author")
	node.Register("author", key.PublicKey())

	old := transaction.Freshness{HeadBlockNumber: node.Head(), HeadBlockID: BlockID(node.Head())}
	node.SetHead(node.Head() + 10)

	vote := &operations.Vote{Voter: "author", Author: "x", Permlink: "y", Weight: 1}
	tx, err := transaction.Build([]operations.Operation{vote}, old, time.Minute, time.Now())
	require.NoError(t, err)
	signed, err := transaction.Sign(tx, chainID, key)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, node.Call(context.Background(), "network_broadcast_api", "broadcast_transaction_synchronous", []any{signed}, &result))
	assert.Equal(t, false, result["expired"])

	forged := transaction.Freshness{HeadBlockNumber: node.Head(), HeadBlockID: BlockID(node.Head() + 1)}
	tx, err = transaction.Build([]operations.Operation{vote}, forged, time.Minute, time.Now())
	require.NoError(t, err)
	signed, err = transaction.Sign(tx, chainID, key)
	require.NoError(t, err)
	err = node.Call(context.Background(), "network_broadcast_api", "broadcast_transaction_synchronous", []any{signed}, nil)
	assert.ErrorIs(t, err, rpc.ErrRejected)
}

func TestUnknownMethod(t *testing.T) {
	node := New(make([]byte, 32))
	err := node.Call(context.Background(), "condenser_api", "get_accounts", []any{}, nil)
	assert.ErrorIs(t, err, rpc.ErrRejected)
	assert.Equal(t, 1, node.Calls("condenser_api", "get_accounts"))
}

func TestBroadcastWireForm(t *testing.T) {
	chainID := make([]byte, 32)
	node := New(chainID)
	key := crypto.PrivateKeyFromSeed("author")
	node.Register("author", key.PublicKey())

	comment := &operations.Comment{ParentPermlink: "tag", Author: "author", Permlink: "p", Title: "T", Body: "B", JSONMetadata: "{}"}
	freshness := transaction.Freshness{HeadBlockNumber: node.Head(), HeadBlockID: BlockID(node.Head())}
	tx, err := transaction.Build([]operations.Operation{comment}, freshness, time.Minute, time.Now())
	require.NoError(t, err)
	signed, err := transaction.Sign(tx, chainID, key)
	require.NoError(t, err)
	wire, err := json.Marshal(signed)
	require.NoError(t, err)

	tampered := strings.Replace(string(wire), `"body":"B"`, `"body":"C"`, 1)
	require.NotEqual(t, string(wire), tampered)
	err = node.Call(context.Background(), "network_broadcast_api", "broadcast_transaction_synchronous", []any{json.RawMessage(tampered)}, nil)
	assert.ErrorIs(t, err, rpc.ErrRejected)

	var result map[string]any
	require.NoError(t, node.Call(context.Background(), "network_broadcast_api", "broadcast_transaction_synchronous", []any{json.RawMessage(wire)}, &result))
	assert.Equal(t, signed.ID(), result["id"])
	require.Len(t, node.Accepted(), 1)
	assert.Equal(t, comment, node.Accepted()[0].Operations[0])
	assert.Equal(t, []string{"tag/@author/p"}, node.Discussions("tag"))

	err = node.Call(context.Background(), "network_broadcast_api", "broadcast_transaction_synchronous", []any{json.RawMessage(`{"operations":[["nope",{}]]}`)}, nil)
	assert.ErrorIs(t, err, rpc.ErrRejected)
}
