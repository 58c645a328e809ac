package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freehandle/minddapp/client"
	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/middleware/questions"
	"github.com/freehandle/minddapp/rpc"
	"github.com/freehandle/minddapp/testnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	posting = crypto.PrivateKeyFromLogin("alice", "pw", crypto.RolePosting)
	active  = crypto.PrivateKeyFromLogin("alice", "pw", crypto.RoleActive)
)

func newTestApp(t *testing.T) (*testnode.Node, func(*http.Request) (int, []byte)) {
	node := testnode.New(make([]byte, 32))
	node.Register("alice", posting.PublicKey())
	node.Register("alice", active.PublicKey())
	c, err := client.NewWithCaller(client.DefaultConfig(), node)
	require.NoError(t, err)
	app := NewApp(questions.NewBoard(c, questions.DefaultConfig()))
	return node, func(req *http.Request) (int, []byte) {
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, body
	}
}

func askRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAskAndList(t *testing.T) {
	node, do := newTestApp(t)
	body := fmt.Sprintf(`{"author":"alice","title":"Why?","tags":"golang steem","bounty":"0.5","postingKey":%q,"activeKey":%q}`, posting.WIF(), active.WIF())

	status, data := do(askRequest(body))
	require.Equal(t, http.StatusCreated, status, string(data))
	var result questions.AskResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.NotEmpty(t, result.BountyID)
	assert.Len(t, node.Accepted(), 2)

	status, data = do(httptest.NewRequest(http.MethodGet, "/questions?filter=golang", nil))
	require.Equal(t, http.StatusOK, status)
	var summaries []questions.Summary
	require.NoError(t, json.Unmarshal(data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Why?", summaries[0].Title)

	status, data = do(httptest.NewRequest(http.MethodGet, "/questions?filter=other", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(data))
}

func TestAskErrors(t *testing.T) {
	node, do := newTestApp(t)

	status, data := do(askRequest(`{"author":"alice","title":"Q","postingKey":"not-a-key"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotContains(t, string(data), "not-a-key")

	status, _ = do(askRequest(`{"author":"alice",`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(askRequest(fmt.Sprintf(`{"title":"Q","postingKey":%q}`, posting.WIF())))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Zero(t, node.TotalCalls())

	node.ExpireAll(true)
	status, _ = do(askRequest(fmt.Sprintf(`{"author":"alice","title":"Q","postingKey":%q}`, posting.WIF())))
	assert.Equal(t, http.StatusConflict, status)
	node.ExpireAll(false)

	wrong := crypto.PrivateKeyFromSeed("mallory")
	status, data = do(askRequest(fmt.Sprintf(`{"author":"alice","title":"Q","bounty":1,"postingKey":%q,"activeKey":%q}`, posting.WIF(), wrong.WIF())))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(data, &response))
	require.NotNil(t, response.Result, "accepted post is reported")
	assert.NotEmpty(t, response.Result.PostID)

	node.Fail(client.DatabaseAPI, "get_discussions_by_created", &rpc.NetworkError{Method: "get_discussions_by_created", Err: errors.New("down")})
	status, _ = do(httptest.NewRequest(http.MethodGet, "/questions", nil))
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestStatus(t *testing.T) {
	cases := map[error]int{
		crypto.ErrInvalidKey:                                  http.StatusBadRequest,
		questions.ErrInvalidBounty:                            http.StatusBadRequest,
		fmt.Errorf("post: %w", client.ErrTransactionExpired):  http.StatusConflict,
		fmt.Errorf("post: %w", &rpc.RPCError{Code: 1}):        http.StatusUnprocessableEntity,
		&rpc.NetworkError{Method: "m", Err: context.Canceled}: http.StatusBadGateway,
		errors.New("unexpected"):                              http.StatusInternalServerError,
	}
	for err, expected := range cases {
		status, _ := Status(err)
		assert.Equal(t, expected, status, err.Error())
	}
}

func TestConfigurationCheck(t *testing.T) {
	assert.NoError(t, Configuration{Hostname: "localhost", Port: 7000}.Check())
	assert.Error(t, Configuration{Hostname: "localhost"}.Check())
	assert.Equal(t, "localhost:7000", Configuration{Hostname: "localhost", Port: 7000}.Address())
}
