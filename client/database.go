package client

import (
	"context"
	"fmt"

	"github.com/freehandle/minddapp/protocol/asset"
	"github.com/freehandle/minddapp/protocol/transaction"
	"github.com/freehandle/minddapp/rpc"
)

const DatabaseAPI = "database_api"

// Database is the read side of the node.
type Database struct {
	caller rpc.Caller
}

type DynamicGlobalProperties struct {
	HeadBlockNumber       uint32           `json:"head_block_number"`
	HeadBlockID           string           `json:"head_block_id"`
	Time                  transaction.Time `json:"time"`
	CurrentWitness        string           `json:"current_witness"`
	TotalVestingFundSteem asset.Asset      `json:"total_vesting_fund_steem"`
	TotalVestingShares    asset.Asset      `json:"total_vesting_shares"`
}

func (p *DynamicGlobalProperties) Freshness() transaction.Freshness {
	return transaction.Freshness{HeadBlockNumber: p.HeadBlockNumber, HeadBlockID: p.HeadBlockID}
}

func (p *DynamicGlobalProperties) VestingSharePrice() asset.Price {
	return asset.VestingSharePrice(p.TotalVestingFundSteem, p.TotalVestingShares)
}

type ChainProperties struct {
	AccountCreationFee asset.Asset `json:"account_creation_fee"`
	MaximumBlockSize   uint32      `json:"maximum_block_size"`
	SBDInterestRate    uint16      `json:"sbd_interest_rate"`
}

// DiscussionQuery selects posts for the get_discussions_by_* calls.
type DiscussionQuery struct {
	Tag   string `json:"tag"`
	Limit int    `json:"limit"`
}

type Discussion struct {
	ID             uint64           `json:"id"`
	Author         string           `json:"author"`
	Permlink       string           `json:"permlink"`
	Category       string           `json:"category"`
	ParentAuthor   string           `json:"parent_author"`
	ParentPermlink string           `json:"parent_permlink"`
	Title          string           `json:"title"`
	Body           string           `json:"body"`
	JSONMetadata   string           `json:"json_metadata"`
	Created        transaction.Time `json:"created"`
	URL            string           `json:"url"`
}

func (d *Database) call(ctx context.Context, method string, params, result any) error {
	if err := d.caller.Call(ctx, DatabaseAPI, method, params, result); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (d *Database) DynamicGlobalProperties(ctx context.Context) (*DynamicGlobalProperties, error) {
	var props DynamicGlobalProperties
	if err := d.call(ctx, "get_dynamic_global_properties", []any{}, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

func (d *Database) ChainProperties(ctx context.Context) (*ChainProperties, error) {
	var props ChainProperties
	if err := d.call(ctx, "get_chain_properties", []any{}, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

// Discussions returns posts ordered as by, one of created, trending, hot.
func (d *Database) Discussions(ctx context.Context, by string, query DiscussionQuery) ([]Discussion, error) {
	discussions := make([]Discussion, 0)
	if err := d.call(ctx, "get_discussions_by_"+by, []any{query}, &discussions); err != nil {
		return nil, err
	}
	return discussions, nil
}

func (d *Database) DiscussionsByCreated(ctx context.Context, query DiscussionQuery) ([]Discussion, error) {
	return d.Discussions(ctx, "created", query)
}
