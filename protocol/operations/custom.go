package operations

import (
	"encoding/json"

	"github.com/freehandle/minddapp/util"
)

type CustomJSON struct {
	RequiredAuths        []string `json:"required_auths"`
	RequiredPostingAuths []string `json:"required_posting_auths"`
	ID                   string   `json:"id"`
	JSON                 string   `json:"json"`
}

func (c *CustomJSON) Kind() byte {
	return ICustomJSON
}

func (c *CustomJSON) Name() string {
	return "custom_json"
}

func (c *CustomJSON) Serialize(data *[]byte) {
	util.PutStringArray(c.RequiredAuths, data)
	util.PutStringArray(c.RequiredPostingAuths, data)
	util.PutString(c.ID, data)
	util.PutString(c.JSON, data)
}

func (c *CustomJSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"required_auths":         nonNil(c.RequiredAuths),
		"required_posting_auths": nonNil(c.RequiredPostingAuths),
		"id":                     c.ID,
		"json":                   c.JSON,
	})
}
