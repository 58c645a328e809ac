/*
Package testnode is an in-process network node for tests. It answers the
database_api and network_broadcast_api calls used by minddapp, checks the
signatures of broadcast transactions against the keys registered for each
account and produces one block per accepted transaction.

Node implements rpc.Caller and is safe for concurrent use.
*/
package testnode

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/operations"
	"github.com/freehandle/minddapp/protocol/transaction"
	"github.com/freehandle/minddapp/rpc"
	"github.com/freehandle/minddapp/util"
)

// Node error codes, as reported by steemd.
const (
	CodeInvalidParams   = -32602
	CodeMethodNotFound  = -32601
	CodeAssertException = -32000
)

type Node struct {
	mu            sync.Mutex
	chainID       []byte
	head          uint32
	clock         func() time.Time
	delay         time.Duration
	keys          map[string][]crypto.PublicKey
	discussions   []discussion
	accepted      []*transaction.Signed
	calls         map[string]int
	failures      map[string]error
	expireAll     bool
	creationFee   string
	vestingFund   string
	vestingShares string
}

type discussion struct {
	ID             uint64 `json:"id"`
	Author         string `json:"author"`
	Permlink       string `json:"permlink"`
	Category       string `json:"category"`
	ParentAuthor   string `json:"parent_author"`
	ParentPermlink string `json:"parent_permlink"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	JSONMetadata   string `json:"json_metadata"`
	Created        string `json:"created"`
	URL            string `json:"url"`
}

// New starts a node at head block 1000 with mainnet economics.
func New(chainID []byte) *Node {
	return &Node{
		chainID:       append([]byte{}, chainID...),
		head:          1000,
		clock:         time.Now,
		keys:          make(map[string][]crypto.PublicKey),
		calls:         make(map[string]int),
		failures:      make(map[string]error),
		creationFee:   "0.100 STEEM",
		vestingFund:   "1000.000 STEEM",
		vestingShares: "2000000.000000 VESTS",
	}
}

// SetClock sets the node's notion of now used to detect expired
// transactions.
func (n *Node) SetClock(clock func() time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clock = clock
}

// SetHead moves the head block.
func (n *Node) SetHead(head uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.head = head
}

func (n *Node) Head() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.head
}

// SetDelay makes every broadcast take d, honoring cancellation.
func (n *Node) SetDelay(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delay = d
}

// Register grants key authority over account.
func (n *Node) Register(account string, key crypto.PublicKey) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys[account] = append(n.keys[account], key)
}

// Fail makes every call to api.method return err until cleared with a nil
// err.
func (n *Node) Fail(api, method string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err == nil {
		delete(n.failures, api+"."+method)
		return
	}
	n.failures[api+"."+method] = err
}

// ExpireAll makes the node report every broadcast as expired.
func (n *Node) ExpireAll(expire bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expireAll = expire
}

// Calls returns the number of calls to api.method.
func (n *Node) Calls(api, method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[api+"."+method]
}

// TotalCalls returns the number of calls of any method.
func (n *Node) TotalCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, count := range n.calls {
		total += count
	}
	return total
}

// Accepted returns the transactions included so far, in block order.
func (n *Node) Accepted() []*transaction.Signed {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*transaction.Signed{}, n.accepted...)
}

// BlockID is the id of block number: the big endian number followed by
// 16 bytes derived from it.
func BlockID(number uint32) string {
	id := make([]byte, 4, 20)
	binary.BigEndian.PutUint32(id, number)
	hash := crypto.Hasher(id)
	id = append(id, hash[:16]...)
	return hex.EncodeToString(id)
}

func (n *Node) Call(ctx context.Context, api, method string, params, result any) error {
	name := api + "." + method
	n.mu.Lock()
	n.calls[name]++
	failure := n.failures[name]
	delay := n.delay
	n.mu.Unlock()
	if failure != nil {
		return failure
	}
	if err := ctx.Err(); err != nil {
		return &rpc.NetworkError{Method: name, Err: err}
	}
	var answer any
	var err error
	switch name {
	case "database_api.get_dynamic_global_properties":
		answer = n.dynamicGlobalProperties()
	case "database_api.get_chain_properties":
		answer = n.chainProperties()
	case "database_api.get_discussions_by_created":
		answer, err = n.discussionsByCreated(params)
	case "network_broadcast_api.broadcast_transaction_synchronous":
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return &rpc.NetworkError{Method: name, Err: ctx.Err()}
			}
		}
		answer, err = n.broadcast(params)
	default:
		err = &rpc.RPCError{Code: CodeMethodNotFound, Message: "method not found: " + name}
	}
	if err != nil {
		return err
	}
	return roundTrip(name, answer, result)
}

// roundTrip hands result a decoded copy of answer, as a remote node would.
func roundTrip(method string, answer, result any) error {
	if result == nil {
		return nil
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return &rpc.NetworkError{Method: method, Err: err}
	}
	response := rpc.Response{JSONRPC: "2.0", Result: data}
	return response.Decode(method, result)
}

func (n *Node) dynamicGlobalProperties() map[string]any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return map[string]any{
		"head_block_number":        n.head,
		"head_block_id":            BlockID(n.head),
		"time":                     transaction.NewTime(n.clock()).String(),
		"current_witness":          "initminer",
		"total_vesting_fund_steem": n.vestingFund,
		"total_vesting_shares":     n.vestingShares,
	}
}

func (n *Node) chainProperties() map[string]any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return map[string]any{
		"account_creation_fee": n.creationFee,
		"maximum_block_size":   65536,
		"sbd_interest_rate":    0,
	}
}

func invalidParams(message string) error {
	return &rpc.RPCError{Code: CodeInvalidParams, Message: message}
}

func (n *Node) discussionsByCreated(params any) ([]discussion, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, invalidParams(err.Error())
	}
	var queries []struct {
		Tag   string `json:"tag"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(encoded, &queries); err != nil || len(queries) != 1 {
		return nil, invalidParams("expected one discussion query")
	}
	query := queries[0]
	if query.Limit < 1 || query.Limit > 100 {
		return nil, &rpc.RPCError{Code: CodeAssertException, Message: "limit must be between 1 and 100"}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	found := make([]discussion, 0)
	for i := len(n.discussions) - 1; i >= 0 && len(found) < query.Limit; i-- {
		d := n.discussions[i]
		if query.Tag == "" || d.Category == query.Tag || hasTag(d.JSONMetadata, query.Tag) {
			found = append(found, d)
		}
	}
	return found, nil
}

func hasTag(metadata, tag string) bool {
	var parsed struct {
		Tags []string `json:"tags"`
	}
	if json.Unmarshal([]byte(metadata), &parsed) != nil {
		return false
	}
	return util.SetFromSlice(parsed.Tags).Has(tag)
}

// broadcast decodes the transaction from its JSON form, so only what travels
// on the wire reaches the signature checks.
func (n *Node) broadcast(params any) (map[string]any, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, invalidParams(err.Error())
	}
	var list []json.RawMessage
	if err := json.Unmarshal(encoded, &list); err != nil || len(list) != 1 {
		return nil, invalidParams("expected one signed transaction")
	}
	signed := &transaction.Signed{}
	if err := json.Unmarshal(list[0], signed); err != nil {
		return nil, invalidParams(err.Error())
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.expireAll || !signed.Expiration.After(n.clock()) {
		return map[string]any{"id": signed.ID(), "block_num": 0, "trx_num": 0, "expired": true}, nil
	}
	if !n.knownReference(signed.RefBlockNum, signed.RefBlockPrefix) {
		return nil, &rpc.RPCError{Code: CodeAssertException, Message: "transaction tapos exception"}
	}
	signers, err := signed.Keys(n.chainID)
	if err != nil {
		return nil, &rpc.RPCError{Code: CodeAssertException, Message: err.Error()}
	}
	for _, account := range requiredAccounts(signed.Operations) {
		if !n.authorized(account, signers) {
			return nil, &rpc.RPCError{
				Code:    CodeAssertException,
				Message: fmt.Sprintf("missing required authority of %s", account),
				Data:    json.RawMessage(`{"name":"tx_missing_auth"}`),
			}
		}
	}
	n.head++
	for _, op := range signed.Operations {
		if comment, ok := op.(*operations.Comment); ok {
			n.store(comment)
		}
	}
	n.accepted = append(n.accepted, signed)
	return map[string]any{"id": signed.ID(), "block_num": n.head, "trx_num": 0, "expired": false}, nil
}

// knownReference resolves the reference to the most recent block with those
// low 16 bits and checks its prefix.
func (n *Node) knownReference(num uint16, prefix uint32) bool {
	back := uint32(uint16(n.head) - num)
	if back > n.head {
		return false
	}
	expected, err := transaction.ReferencePrefix(BlockID(n.head - back))
	return err == nil && expected == prefix
}

func (n *Node) authorized(account string, signers []crypto.PublicKey) bool {
	for _, registered := range n.keys[account] {
		for _, signer := range signers {
			if bytes.Equal(registered.Key[:], signer.Key[:]) {
				return true
			}
		}
	}
	return false
}

func (n *Node) store(comment *operations.Comment) {
	category := comment.ParentPermlink
	if comment.ParentAuthor != "" {
		category = ""
	}
	n.discussions = append(n.discussions, discussion{
		ID:             uint64(len(n.discussions) + 1),
		Author:         comment.Author,
		Permlink:       comment.Permlink,
		Category:       category,
		ParentAuthor:   comment.ParentAuthor,
		ParentPermlink: comment.ParentPermlink,
		Title:          comment.Title,
		Body:           comment.Body,
		JSONMetadata:   comment.JSONMetadata,
		Created:        transaction.NewTime(n.clock()).String(),
		URL:            fmt.Sprintf("/%s/@%s/%s", category, comment.Author, comment.Permlink),
	})
}

func requiredAccounts(ops []operations.Operation) []string {
	accounts := make(util.Set[string])
	for _, op := range ops {
		switch op := op.(type) {
		case *operations.Vote:
			accounts.Add(op.Voter)
		case *operations.Comment:
			accounts.Add(op.Author)
		case *operations.CommentOptions:
			accounts.Add(op.Author)
		case *operations.Transfer:
			accounts.Add(op.From)
		case *operations.CustomJSON:
			accounts.Add(op.RequiredAuths...)
			accounts.Add(op.RequiredPostingAuths...)
		case *operations.AccountUpdate:
			accounts.Add(op.Account)
		case *operations.DelegateVestingShares:
			accounts.Add(op.Delegator)
		case *operations.AccountCreateWithDelegation:
			accounts.Add(op.Creator)
		}
	}
	return util.SortedStrings(accounts)
}

// Discussions returns the posts stored under tag.
func (n *Node) Discussions(tag string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	links := make([]string, 0)
	for _, d := range n.discussions {
		if d.Category == tag || hasTag(d.JSONMetadata, tag) {
			links = append(links, strings.TrimPrefix(d.URL, "/"))
		}
	}
	return links
}
