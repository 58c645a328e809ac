package operations

import (
	"encoding/json"
	"fmt"

	"github.com/freehandle/minddapp/protocol/asset"
	"github.com/freehandle/minddapp/util"
)

// Comment creates or edits a post. A top level post has an empty
// ParentAuthor and its main tag as ParentPermlink.
type Comment struct {
	ParentAuthor   string `json:"parent_author"`
	ParentPermlink string `json:"parent_permlink"`
	Author         string `json:"author"`
	Permlink       string `json:"permlink"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	JSONMetadata   string `json:"json_metadata"`
}

func (c *Comment) Kind() byte {
	return IComment
}

func (c *Comment) Name() string {
	return "comment"
}

func (c *Comment) Serialize(data *[]byte) {
	util.PutString(c.ParentAuthor, data)
	util.PutString(c.ParentPermlink, data)
	util.PutString(c.Author, data)
	util.PutString(c.Permlink, data)
	util.PutString(c.Title, data)
	util.PutString(c.Body, data)
	util.PutString(c.JSONMetadata, data)
}

type Beneficiary struct {
	Account string `json:"account"`
	Weight  uint16 `json:"weight"`
}

// CommentOptions sets the payout options of a post. Beneficiaries travel as
// the first comment options extension.
type CommentOptions struct {
	Author               string        `json:"author"`
	Permlink             string        `json:"permlink"`
	MaxAcceptedPayout    asset.Asset   `json:"max_accepted_payout"`
	PercentSteemDollars  uint16        `json:"percent_steem_dollars"`
	AllowVotes           bool          `json:"allow_votes"`
	AllowCurationRewards bool          `json:"allow_curation_rewards"`
	Beneficiaries        []Beneficiary `json:"-"`
}

const beneficiariesExtension = 0

func (c *CommentOptions) Kind() byte {
	return ICommentOptions
}

func (c *CommentOptions) Name() string {
	return "comment_options"
}

func (c *CommentOptions) Serialize(data *[]byte) {
	util.PutString(c.Author, data)
	util.PutString(c.Permlink, data)
	c.MaxAcceptedPayout.Serialize(data)
	util.PutUint16(c.PercentSteemDollars, data)
	util.PutBool(c.AllowVotes, data)
	util.PutBool(c.AllowCurationRewards, data)
	if len(c.Beneficiaries) == 0 {
		util.PutVarint32(0, data)
		return
	}
	util.PutVarint32(1, data)
	util.PutVarint32(beneficiariesExtension, data)
	util.PutVarint32(uint32(len(c.Beneficiaries)), data)
	for _, beneficiary := range c.Beneficiaries {
		util.PutString(beneficiary.Account, data)
		util.PutUint16(beneficiary.Weight, data)
	}
}

func (c *CommentOptions) MarshalJSON() ([]byte, error) {
	extensions := []any{}
	if len(c.Beneficiaries) > 0 {
		extensions = append(extensions, []any{
			beneficiariesExtension,
			map[string][]Beneficiary{"beneficiaries": c.Beneficiaries},
		})
	}
	return json.Marshal(struct {
		Author               string      `json:"author"`
		Permlink             string      `json:"permlink"`
		MaxAcceptedPayout    asset.Asset `json:"max_accepted_payout"`
		PercentSteemDollars  uint16      `json:"percent_steem_dollars"`
		AllowVotes           bool        `json:"allow_votes"`
		AllowCurationRewards bool        `json:"allow_curation_rewards"`
		Extensions           []any       `json:"extensions"`
	}{
		Author:               c.Author,
		Permlink:             c.Permlink,
		MaxAcceptedPayout:    c.MaxAcceptedPayout,
		PercentSteemDollars:  c.PercentSteemDollars,
		AllowVotes:           c.AllowVotes,
		AllowCurationRewards: c.AllowCurationRewards,
		Extensions:           extensions,
	})
}

func (c *CommentOptions) UnmarshalJSON(data []byte) error {
	type options CommentOptions
	var decoded struct {
		options
		Extensions []json.RawMessage `json:"extensions"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = CommentOptions(decoded.options)
	for _, extension := range decoded.Extensions {
		var tuple []json.RawMessage
		if err := json.Unmarshal(extension, &tuple); err != nil || len(tuple) != 2 {
			return fmt.Errorf("invalid comment options extension %s", extension)
		}
		var id uint32
		if err := json.Unmarshal(tuple[0], &id); err != nil || id != beneficiariesExtension {
			return fmt.Errorf("unsupported comment options extension %s", tuple[0])
		}
		var payload struct {
			Beneficiaries []Beneficiary `json:"beneficiaries"`
		}
		if err := json.Unmarshal(tuple[1], &payload); err != nil {
			return fmt.Errorf("invalid beneficiaries: %w", err)
		}
		c.Beneficiaries = payload.Beneficiaries
	}
	return nil
}
