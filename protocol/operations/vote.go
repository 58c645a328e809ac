package operations

import (
	"github.com/freehandle/minddapp/util"
)

// Vote weight is in basis points, from -10000 (full flag) to 10000.
type Vote struct {
	Voter    string `json:"voter"`
	Author   string `json:"author"`
	Permlink string `json:"permlink"`
	Weight   int16  `json:"weight"`
}

func (v *Vote) Kind() byte {
	return IVote
}

func (v *Vote) Name() string {
	return "vote"
}

func (v *Vote) Serialize(data *[]byte) {
	util.PutString(v.Voter, data)
	util.PutString(v.Author, data)
	util.PutString(v.Permlink, data)
	util.PutInt16(v.Weight, data)
}
