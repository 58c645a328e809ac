package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

const maxResponseSize = 16 << 20

type Config struct {
	Address string
	Timeout time.Duration
	// consecutive transport failures that open the breaker, zero disables it
	BreakerFailures uint32
	// how long the open breaker rejects calls before probing again
	BreakerTimeout time.Duration
}

func DefaultConfig(address string) Config {
	return Config{
		Address:         address,
		Timeout:         30 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Client is a Caller over HTTP POST. A circuit breaker stops hammering a
// node that keeps failing at the transport level; node reported errors do
// not count as failures.
type Client struct {
	address string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	client := &Client{
		address: cfg.Address,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BreakerFailures > 0 {
		failures := cfg.BreakerFailures
		client.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    cfg.Address,
			Timeout: cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				var networkErr *NetworkError
				var abandoned abandonedCall
				return err == nil || errors.As(err, &abandoned) || !errors.As(err, &networkErr)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("rpc circuit breaker", "node", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return client
}

func (c *Client) Address() string {
	return c.address
}

func (c *Client) Call(ctx context.Context, api, method string, params, result any) error {
	name := api + "." + method
	if c.breaker == nil {
		return c.call(ctx, name, NewRequest(uuid.NewString(), api, method, params), result)
	}
	_, err := c.breaker.Execute(func() (any, error) {
		err := c.call(ctx, name, NewRequest(uuid.NewString(), api, method, params), result)
		if err != nil && ctx.Err() != nil {
			return nil, abandonedCall{err: err}
		}
		return nil, err
	})
	var abandoned abandonedCall
	if errors.As(err, &abandoned) {
		return abandoned.err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &NetworkError{Method: name, Err: err}
	}
	return err
}

// abandonedCall is a call cut short by its own caller's context. It says
// nothing about the node, so the breaker does not count it.
type abandonedCall struct {
	err error
}

func (a abandonedCall) Error() string {
	return a.err.Error()
}

func (c *Client) call(ctx context.Context, name string, request Request, result any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("could not encode %s request: %w", name, err)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Method: name, Err: err}
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	slog.Debug("rpc call", "method", name, "id", request.ID)
	httpResponse, err := c.http.Do(httpRequest)
	if err != nil {
		return &NetworkError{Method: name, Err: err}
	}
	defer httpResponse.Body.Close()
	data, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseSize))
	if err != nil {
		return &NetworkError{Method: name, Err: err}
	}
	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if httpResponse.StatusCode/100 != 2 {
			return &NetworkError{Method: name, Err: fmt.Errorf("http status %d", httpResponse.StatusCode)}
		}
		return &NetworkError{Method: name, Err: fmt.Errorf("invalid response: %w", err)}
	}
	if response.Error == nil && httpResponse.StatusCode/100 != 2 {
		return &NetworkError{Method: name, Err: fmt.Errorf("http status %d", httpResponse.StatusCode)}
	}
	return response.Decode(name, result)
}
