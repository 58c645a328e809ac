package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(t *testing.T, handler func(request Request) (int, string)) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var request Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		status, body := handler(request)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCallRequestShape(t *testing.T) {
	var got Request
	server := node(t, func(request Request) (int, string) {
		got = request
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{"head_block_number":42}}`
	})
	client := NewClient(DefaultConfig(server.URL))

	var result struct {
		HeadBlockNumber uint32 `json:"head_block_number"`
	}
	require.NoError(t, client.Call(context.Background(), "database_api", "get_dynamic_global_properties", nil, &result))
	assert.Equal(t, uint32(42), result.HeadBlockNumber)
	assert.Equal(t, "2.0", got.JSONRPC)
	assert.Equal(t, "call", got.Method)
	assert.NotEmpty(t, got.ID)
	require.Len(t, got.Params, 3)
	assert.Equal(t, "database_api", got.Params[0])
	assert.Equal(t, "get_dynamic_global_properties", got.Params[1])
	assert.Equal(t, []any{}, got.Params[2])
}

func TestCallRPCError(t *testing.T) {
	server := node(t, func(request Request) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"missing required posting authority","data":{"name":"tx_missing_posting_auth"}}}`
	})
	client := NewClient(DefaultConfig(server.URL))

	err := client.Call(context.Background(), "network_broadcast_api", "broadcast_transaction_synchronous", []any{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "posting authority")
	var networkErr *NetworkError
	assert.False(t, errors.As(err, &networkErr))
}

func TestCallNetworkErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := node(t, func(request Request) (int, string) {
			return http.StatusBadGateway, "bad gateway"
		})
		err := NewClient(DefaultConfig(server.URL)).Call(context.Background(), "database_api", "get_chain_properties", nil, nil)
		var networkErr *NetworkError
		require.True(t, errors.As(err, &networkErr))
		assert.Equal(t, "database_api.get_chain_properties", networkErr.Method)
	})

	t.Run("garbage", func(t *testing.T) {
		server := node(t, func(request Request) (int, string) {
			return http.StatusOK, "<html>"
		})
		err := NewClient(DefaultConfig(server.URL)).Call(context.Background(), "database_api", "get_chain_properties", nil, nil)
		var networkErr *NetworkError
		assert.True(t, errors.As(err, &networkErr))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		address := server.URL
		server.Close()
		err := NewClient(DefaultConfig(address)).Call(context.Background(), "database_api", "get_chain_properties", nil, nil)
		var networkErr *NetworkError
		assert.True(t, errors.As(err, &networkErr))
	})

	t.Run("cancelled", func(t *testing.T) {
		server := node(t, func(request Request) (int, string) {
			time.Sleep(200 * time.Millisecond)
			return http.StatusOK, `{"result":{}}`
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := NewClient(DefaultConfig(server.URL)).Call(ctx, "database_api", "get_chain_properties", nil, nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestBreakerOpens(t *testing.T) {
	var hits int32
	server := node(t, func(request Request) (int, string) {
		atomic.AddInt32(&hits, 1)
		return http.StatusServiceUnavailable, ""
	})
	cfg := DefaultConfig(server.URL)
	cfg.BreakerFailures = 2
	cfg.BreakerTimeout = time.Minute
	client := NewClient(cfg)

	for n := 0; n < 4; n++ {
		err := client.Call(context.Background(), "database_api", "get_chain_properties", nil, nil)
		var networkErr *NetworkError
		require.True(t, errors.As(err, &networkErr))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestBreakerIgnoresRejections(t *testing.T) {
	var hits int32
	server := node(t, func(request Request) (int, string) {
		atomic.AddInt32(&hits, 1)
		return http.StatusOK, `{"error":{"code":1,"message":"nope"}}`
	})
	cfg := DefaultConfig(server.URL)
	cfg.BreakerFailures = 1
	client := NewClient(cfg)
	for n := 0; n < 3; n++ {
		assert.ErrorIs(t, client.Call(context.Background(), "a", "b", nil, nil), ErrRejected)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	var hits int32
	server := node(t, func(request Request) (int, string) {
		atomic.AddInt32(&hits, 1)
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{}}`
	})
	cfg := DefaultConfig(server.URL)
	cfg.BreakerFailures = 2
	cfg.BreakerTimeout = time.Minute
	client := NewClient(cfg)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for n := 0; n < 5; n++ {
		err := client.Call(cancelled, "database_api", "get_chain_properties", nil, nil)
		var networkErr *NetworkError
		require.True(t, errors.As(err, &networkErr))
		assert.ErrorIs(t, err, context.Canceled)
	}
	expired, cancelExpired := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancelExpired()
	<-expired.Done()
	for n := 0; n < 3; n++ {
		assert.ErrorIs(t, client.Call(expired, "database_api", "get_chain_properties", nil, nil), context.DeadlineExceeded)
	}

	before := atomic.LoadInt32(&hits)
	require.NoError(t, client.Call(context.Background(), "database_api", "get_chain_properties", nil, nil))
	assert.Equal(t, before+1, atomic.LoadInt32(&hits))
}
