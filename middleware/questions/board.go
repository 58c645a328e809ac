/*
Package questions implements the minddapp question board on top of the
network client.

A question is a top level post under the board's main tag. Asking with a
bounty posts the question first and, once the post is included, transfers
the bounty to the board account with the post link as memo. Listing reads
the newest posts under the main tag and optionally keeps only those tagged
with a filter.
*/
package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/freehandle/minddapp/client"
	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/asset"
	"github.com/freehandle/minddapp/protocol/operations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultMainTag       = "minddappquestion"
	DefaultServer        = "http://condenser.steem.vc"
	DefaultBountyAccount = "demo"
	DefaultListLimit     = 5
	emptyBody            = "n/a"
)

var (
	ErrMissingAuthor = errors.New("question author not set")
	ErrMissingTitle  = errors.New("question title not set")
	ErrInvalidBounty = errors.New("bounty must not be negative")
)

type Config struct {
	// MainTag is the parent permlink of every question
	MainTag string `json:"mainTag"`
	// Server is the front end that renders posts, used for links
	Server string `json:"server"`
	// BountyAccount receives question bounties
	BountyAccount string `json:"bountyAccount"`
	// BountySymbol is SBD on the main network
	BountySymbol string `json:"bountySymbol"`
	// ListLimit is the number of posts fetched by List
	ListLimit int `json:"listLimit"`
}

func DefaultConfig() Config {
	return Config{
		MainTag:       DefaultMainTag,
		Server:        DefaultServer,
		BountyAccount: DefaultBountyAccount,
		BountySymbol:  asset.SBD,
		ListLimit:     DefaultListLimit,
	}
}

func (c Config) Check() error {
	if c.MainTag == "" || strings.ToLower(c.MainTag) != c.MainTag {
		return fmt.Errorf("main tag %q must be lower case and not empty", c.MainTag)
	}
	if c.BountyAccount == "" {
		return errors.New("bounty account not set")
	}
	if c.ListLimit < 1 || c.ListLimit > 100 {
		return fmt.Errorf("list limit %d must be between 1 and 100", c.ListLimit)
	}
	if _, err := asset.FromString("0 " + c.BountySymbol); err != nil {
		return fmt.Errorf("bounty symbol: %w", err)
	}
	return nil
}

type Board struct {
	broadcast *client.Broadcast
	database  *client.Database
	config    Config
	permlink  func() string
}

func NewBoard(c *client.Client, cfg Config) *Board {
	return &Board{
		broadcast: c.Broadcast,
		database:  c.Database,
		config:    cfg,
		permlink:  randomPermlink,
	}
}

func randomPermlink() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type Question struct {
	Author string          `json:"author"`
	Title  string          `json:"title"`
	Body   string          `json:"body"`
	Tags   []string        `json:"tags"`
	Bounty decimal.Decimal `json:"bounty"`
}

type AskResult struct {
	Permlink    string `json:"permlink"`
	Link        string `json:"link"`
	PostID      string `json:"postId"`
	PostBlock   uint32 `json:"postBlock"`
	BountyID    string `json:"bountyId,omitempty"`
	BountyBlock uint32 `json:"bountyBlock,omitempty"`
}

// Link is the front end address of a post under the main tag.
func (b *Board) Link(author, permlink string) string {
	return fmt.Sprintf("%s/%s/@%s/%s", b.config.Server, b.config.MainTag, author, permlink)
}

// Bounty formats amount in the bounty symbol, rounded to its precision.
func (b *Board) Bounty(amount decimal.Decimal) asset.Asset {
	return asset.New(amount, b.config.BountySymbol)
}

func (b *Board) tags(extra []string) []string {
	tags := []string{b.config.MainTag}
	for _, tag := range extra {
		for _, field := range strings.Fields(tag) {
			if field != b.config.MainTag {
				tags = append(tags, field)
			}
		}
	}
	return tags
}

// Comment is the post operation of q under permlink.
func (b *Board) Comment(q Question, permlink string) (*operations.Comment, error) {
	metadata, err := json.Marshal(map[string][]string{"tags": b.tags(q.Tags)})
	if err != nil {
		return nil, err
	}
	body := q.Body
	if body == "" {
		body = emptyBody
	}
	return &operations.Comment{
		ParentPermlink: b.config.MainTag,
		Author:         q.Author,
		Permlink:       permlink,
		Title:          q.Title,
		Body:           body,
		JSONMetadata:   string(metadata),
	}, nil
}

// Ask posts q signed by postingKey and then transfers its bounty signed by
// activeKey. A zero bounty skips the transfer and activeKey is not used.
// When the transfer fails the result of the accepted post is returned along
// with the error.
func (b *Board) Ask(ctx context.Context, q Question, postingKey, activeKey crypto.PrivateKey) (*AskResult, error) {
	if q.Author == "" {
		return nil, ErrMissingAuthor
	}
	if strings.TrimSpace(q.Title) == "" {
		return nil, ErrMissingTitle
	}
	if q.Bounty.IsNegative() {
		return nil, ErrInvalidBounty
	}
	bounty := b.Bounty(q.Bounty)
	if !bounty.InRange() {
		return nil, ErrInvalidBounty
	}
	if !postingKey.IsValid() || (!bounty.IsZero() && !activeKey.IsValid()) {
		return nil, crypto.ErrInvalidKey
	}
	permlink := b.permlink()
	comment, err := b.Comment(q, permlink)
	if err != nil {
		return nil, err
	}
	posted, err := b.broadcast.Comment(ctx, comment, postingKey)
	if err != nil {
		return nil, fmt.Errorf("could not post question: %w", err)
	}
	result := &AskResult{
		Permlink:  permlink,
		Link:      b.Link(q.Author, permlink),
		PostID:    posted.ID,
		PostBlock: posted.BlockNum,
	}
	slog.Info("question posted", "author", q.Author, "permlink", permlink, "block", posted.BlockNum)
	if bounty.IsZero() {
		return result, nil
	}
	transfer := &operations.Transfer{
		From:   q.Author,
		To:     b.config.BountyAccount,
		Amount: bounty,
		Memo:   result.Link,
	}
	paid, err := b.broadcast.Transfer(ctx, transfer, activeKey)
	if err != nil {
		return result, fmt.Errorf("question posted but bounty transfer failed: %w", err)
	}
	result.BountyID = paid.ID
	result.BountyBlock = paid.BlockNum
	slog.Info("bounty transferred", "author", q.Author, "amount", bounty.String(), "block", paid.BlockNum)
	return result, nil
}

// Summary is a question as listed on the board.
type Summary struct {
	Author   string    `json:"author"`
	Permlink string    `json:"permlink"`
	Title    string    `json:"title"`
	Link     string    `json:"link"`
	Created  time.Time `json:"created"`
	Tags     []string  `json:"tags"`
}

// List returns the newest questions, keeping only those tagged with filter
// when it is not empty.
func (b *Board) List(ctx context.Context, filter string) ([]Summary, error) {
	query := client.DiscussionQuery{Tag: b.config.MainTag, Limit: b.config.ListLimit}
	discussions, err := b.database.DiscussionsByCreated(ctx, query)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(discussions))
	for _, post := range discussions {
		var metadata struct {
			Tags []string `json:"tags"`
		}
		if err := json.Unmarshal([]byte(post.JSONMetadata), &metadata); err != nil {
			slog.Debug("invalid post metadata", "author", post.Author, "permlink", post.Permlink)
		}
		if filter != "" && !contains(metadata.Tags, filter) {
			continue
		}
		summaries = append(summaries, Summary{
			Author:   post.Author,
			Permlink: post.Permlink,
			Title:    post.Title,
			Link:     b.config.Server + post.URL,
			Created:  post.Created.Time,
			Tags:     metadata.Tags,
		})
	}
	return summaries, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
