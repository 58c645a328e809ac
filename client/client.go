/*
Package client talks to a network node: it reads chain state through
Database and builds, signs and submits transactions through Broadcast.

	c, err := client.New(client.TestnetConfig())
	result, err := c.Broadcast.Comment(ctx, &operations.Comment{...}, postingKey)

A broadcast is one attempt: the freshness snapshot is fetched, the
transaction built and signed, and submitted synchronously. Nothing is
retried. Failures are one of crypto.ErrInvalidKey (before any network call),
*rpc.NetworkError, ErrTransactionExpired, or *rpc.RPCError when the node
rejects the transaction.
*/
package client

import (
	"time"

	"github.com/freehandle/minddapp/rpc"
)

type Client struct {
	Database  *Database
	Broadcast *Broadcast
	config    Config
}

// New connects to the node of cfg over HTTP.
func New(cfg Config) (*Client, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return NewWithCaller(cfg, rpc.NewClient(cfg.rpc()))
}

// NewWithCaller uses caller as transport. Only the chain parameters of cfg
// are used.
func NewWithCaller(cfg Config, caller rpc.Caller) (*Client, error) {
	chainID, err := cfg.chainID()
	if err != nil {
		return nil, err
	}
	database := &Database{caller: caller}
	return &Client{
		Database: database,
		Broadcast: &Broadcast{
			caller:     caller,
			database:   database,
			chainID:    chainID,
			prefix:     cfg.AddressPrefix,
			expireTime: cfg.expireTime(),
			clock:      time.Now,
		},
		config: cfg,
	}, nil
}

func (c *Client) Config() Config {
	return c.config
}
