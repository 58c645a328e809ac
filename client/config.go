package client

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/transaction"
	"github.com/freehandle/minddapp/rpc"
)

const (
	MainnetAddress = "https://api.steemit.com"
	MainnetChainID = "0000000000000000000000000000000000000000000000000000000000000000"
	TestnetAddress = "https://testnet.steem.vc"
	TestnetChainID = "79276aea5d4877d9a25892eaa01b0adf019d3e5cb12a97478df3298ccdd01673"
	TestnetPrefix  = "STX"
)

// Config is the network a Client talks to. It is copied into the client at
// construction; changing it afterwards has no effect.
type Config struct {
	// Address of the JSON-RPC node
	Address string `json:"address"`
	// ChainID is the hex encoded 32 byte chain id mixed into every digest
	ChainID string `json:"chainId"`
	// AddressPrefix of public key strings, STM on the main network
	AddressPrefix string `json:"addressPrefix"`
	// Timeout of a single RPC call in milliseconds
	Timeout int `json:"timeout"`
	// ExpireTime is the time to live of broadcast transactions in
	// milliseconds
	ExpireTime int `json:"expireTime"`
	// BreakerFailures consecutive transport failures stop calls to the node
	// for BreakerTimeout milliseconds. Zero disables the breaker.
	BreakerFailures uint32 `json:"breakerFailures"`
	BreakerTimeout  int    `json:"breakerTimeout"`
}

func DefaultConfig() Config {
	return Config{
		Address:         MainnetAddress,
		ChainID:         MainnetChainID,
		AddressPrefix:   crypto.DefaultAddressPrefix,
		Timeout:         60_000,
		ExpireTime:      int(transaction.DefaultExpireTime / time.Millisecond),
		BreakerFailures: 5,
		BreakerTimeout:  30_000,
	}
}

// TestnetConfig points to the community test network.
func TestnetConfig() Config {
	cfg := DefaultConfig()
	cfg.Address = TestnetAddress
	cfg.ChainID = TestnetChainID
	cfg.AddressPrefix = TestnetPrefix
	return cfg
}

func (c Config) Check() error {
	if c.Address == "" {
		return errors.New("node address not set")
	}
	if _, err := c.chainID(); err != nil {
		return err
	}
	if len(c.AddressPrefix) != 3 {
		return fmt.Errorf("address prefix %q must have three characters", c.AddressPrefix)
	}
	if c.Timeout < 0 || c.ExpireTime < 0 || c.BreakerTimeout < 0 {
		return errors.New("negative durations not allowed")
	}
	return nil
}

func (c Config) chainID() ([]byte, error) {
	id, err := hex.DecodeString(c.ChainID)
	if err != nil || len(id) != crypto.Size {
		return nil, fmt.Errorf("chain id must be %d hex encoded bytes", crypto.Size)
	}
	return id, nil
}

func (c Config) expireTime() time.Duration {
	if c.ExpireTime == 0 {
		return transaction.DefaultExpireTime
	}
	return time.Duration(c.ExpireTime) * time.Millisecond
}

func (c Config) rpc() rpc.Config {
	return rpc.Config{
		Address:         c.Address,
		Timeout:         time.Duration(c.Timeout) * time.Millisecond,
		BreakerFailures: c.BreakerFailures,
		BreakerTimeout:  time.Duration(c.BreakerTimeout) * time.Millisecond,
	}
}
