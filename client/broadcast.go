package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/asset"
	"github.com/freehandle/minddapp/protocol/operations"
	"github.com/freehandle/minddapp/protocol/transaction"
	"github.com/freehandle/minddapp/rpc"
)

const NetworkBroadcastAPI = "network_broadcast_api"

var (
	ErrTransactionExpired = errors.New("transaction expired")
	ErrMissingAuthorities = errors.New("password or authorities required")
)

// BroadcastResult is the node's answer to a synchronous broadcast.
type BroadcastResult struct {
	ID       string `json:"id"`
	BlockNum uint32 `json:"block_num"`
	TrxNum   uint32 `json:"trx_num"`
	Expired  bool   `json:"expired"`
}

type Broadcast struct {
	caller     rpc.Caller
	database   *Database
	chainID    []byte
	prefix     string
	expireTime time.Duration
	clock      func() time.Time
}

// setClock replaces the wall clock used for expirations. It must be called
// before the Broadcast is shared.
func (b *Broadcast) setClock(clock func() time.Time) {
	b.clock = clock
}

func (b *Broadcast) ExpireTime() time.Duration {
	return b.expireTime
}

// SendOperations signs ops with every key and submits them as a single
// transaction.
func (b *Broadcast) SendOperations(ctx context.Context, ops []operations.Operation, keys ...crypto.PrivateKey) (*BroadcastResult, error) {
	if len(keys) == 0 {
		return nil, transaction.ErrNoKeys
	}
	for n, key := range keys {
		if !key.IsValid() {
			return nil, fmt.Errorf("key %d: %w", n, crypto.ErrInvalidKey)
		}
	}
	props, err := b.database.DynamicGlobalProperties(ctx)
	if err != nil {
		return nil, err
	}
	now := b.clock()
	tx, err := transaction.Build(ops, props.Freshness(), b.expireTime, now)
	if err != nil {
		return nil, err
	}
	slog.Debug("transaction built", "ref_block_num", tx.RefBlockNum, "expiration", tx.Expiration.String(), "operations", len(ops))
	signed, err := transaction.SignAt(tx, b.chainID, now, keys...)
	if err != nil {
		return nil, err
	}
	return b.Send(ctx, signed)
}

// SendOperationsWIF parses the WIF keys before anything else is done.
func (b *Broadcast) SendOperationsWIF(ctx context.Context, ops []operations.Operation, wifs ...string) (*BroadcastResult, error) {
	keys, err := transaction.ParseKeys(wifs...)
	if err != nil {
		return nil, err
	}
	return b.SendOperations(ctx, ops, keys...)
}

// Send submits an already signed transaction and waits for the node to
// include or reject it.
func (b *Broadcast) Send(ctx context.Context, signed *transaction.Signed) (*BroadcastResult, error) {
	var result BroadcastResult
	if err := b.caller.Call(ctx, NetworkBroadcastAPI, "broadcast_transaction_synchronous", []any{signed}, &result); err != nil {
		return nil, fmt.Errorf("broadcast %s: %w", signed.ID(), err)
	}
	if result.Expired {
		slog.Debug("transaction expired", "id", signed.ID())
		return nil, ErrTransactionExpired
	}
	slog.Debug("transaction accepted", "id", result.ID, "block", result.BlockNum)
	return &result, nil
}

func (b *Broadcast) Comment(ctx context.Context, comment *operations.Comment, key crypto.PrivateKey) (*BroadcastResult, error) {
	return b.SendOperations(ctx, []operations.Operation{comment}, key)
}

// CommentWithOptions posts the comment and sets its payout options in the
// same transaction.
func (b *Broadcast) CommentWithOptions(ctx context.Context, comment *operations.Comment, options *operations.CommentOptions, key crypto.PrivateKey) (*BroadcastResult, error) {
	return b.SendOperations(ctx, []operations.Operation{comment, options}, key)
}

func (b *Broadcast) Vote(ctx context.Context, vote *operations.Vote, key crypto.PrivateKey) (*BroadcastResult, error) {
	return b.SendOperations(ctx, []operations.Operation{vote}, key)
}

func (b *Broadcast) Transfer(ctx context.Context, transfer *operations.Transfer, key crypto.PrivateKey) (*BroadcastResult, error) {
	return b.SendOperations(ctx, []operations.Operation{transfer}, key)
}

// JSON broadcasts a custom_json operation.
func (b *Broadcast) JSON(ctx context.Context, custom *operations.CustomJSON, key crypto.PrivateKey) (*BroadcastResult, error) {
	return b.SendOperations(ctx, []operations.Operation{custom}, key)
}

func (b *Broadcast) UpdateAccount(ctx context.Context, update *operations.AccountUpdate, key crypto.PrivateKey) (*BroadcastResult, error) {
	return b.SendOperations(ctx, []operations.Operation{update}, key)
}

func (b *Broadcast) DelegateVestingShares(ctx context.Context, delegate *operations.DelegateVestingShares, key crypto.PrivateKey) (*BroadcastResult, error) {
	return b.SendOperations(ctx, []operations.Operation{delegate}, key)
}

// AccountAuths are the explicit authorities of a new account.
type AccountAuths struct {
	Owner   operations.Authority
	Active  operations.Authority
	Posting operations.Authority
	MemoKey crypto.PublicKey
}

type CreateAccountOptions struct {
	Username string
	Creator  string
	// Password derives the owner, active, posting and memo keys. Auths is
	// used when Password is empty.
	Password string
	Auths    *AccountAuths
	// Fee and Delegation are computed from the chain properties when nil.
	Fee        *asset.Asset
	Delegation *asset.Asset
	Metadata   any
}

// CreateAccount creates Username paid by Creator, whose active key signs
// the transaction.
func (b *Broadcast) CreateAccount(ctx context.Context, options CreateAccountOptions, key crypto.PrivateKey) (*BroadcastResult, error) {
	if !key.IsValid() {
		return nil, crypto.ErrInvalidKey
	}
	op := &operations.AccountCreateWithDelegation{
		Creator:        options.Creator,
		NewAccountName: options.Username,
	}
	switch {
	case options.Password != "":
		public := func(role string) crypto.PublicKey {
			return crypto.PrivateKeyFromLogin(options.Username, options.Password, role).PublicKey().WithPrefix(b.prefix)
		}
		op.Owner = operations.AuthorityFromKey(public(crypto.RoleOwner))
		op.Active = operations.AuthorityFromKey(public(crypto.RoleActive))
		op.Posting = operations.AuthorityFromKey(public(crypto.RolePosting))
		op.MemoKey = public(crypto.RoleMemo)
	case options.Auths != nil:
		op.Owner = options.Auths.Owner.WithPrefix(b.prefix)
		op.Active = options.Auths.Active.WithPrefix(b.prefix)
		op.Posting = options.Auths.Posting.WithPrefix(b.prefix)
		op.MemoKey = options.Auths.MemoKey.WithPrefix(b.prefix)
	default:
		return nil, ErrMissingAuthorities
	}
	if options.Metadata != nil {
		metadata, err := json.Marshal(options.Metadata)
		if err != nil {
			return nil, fmt.Errorf("could not encode account metadata: %w", err)
		}
		op.JSONMetadata = string(metadata)
	}
	fee, delegation, err := b.creationCost(ctx, options.Fee, options.Delegation)
	if err != nil {
		return nil, err
	}
	op.Fee = fee
	op.Delegation = delegation
	return b.SendOperations(ctx, []operations.Operation{op}, key)
}

func (b *Broadcast) creationCost(ctx context.Context, fee, delegation *asset.Asset) (asset.Asset, asset.Asset, error) {
	if fee != nil && delegation != nil {
		return *fee, *delegation, nil
	}
	dynamic, err := b.database.DynamicGlobalProperties(ctx)
	if err != nil {
		return asset.Asset{}, asset.Asset{}, err
	}
	chain, err := b.database.ChainProperties(ctx)
	if err != nil {
		return asset.Asset{}, asset.Asset{}, err
	}
	return asset.AccountCreationCost(dynamic.VestingSharePrice(), chain.AccountCreationFee, fee, delegation)
}
