package main

import (
	"errors"
	"fmt"

	"github.com/freehandle/minddapp/client"
	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/util"
)

const (
	AccountKeyKind byte = iota
	NetworkKind
)

// AccountKey is the secret of one role of a network account.
type AccountKey struct {
	Account string
	Role    string
	Secret  crypto.PrivateKey
}

func ParseAccountKey(data []byte) *AccountKey {
	if len(data) == 0 || data[0] != AccountKeyKind {
		return nil
	}
	position := 1
	key := AccountKey{}
	var secret []byte
	key.Account, position = util.ParseString(data, position)
	key.Role, position = util.ParseString(data, position)
	secret, position = util.ParseByteArray(data, position)
	if position != len(data) || len(secret) != crypto.PrivateKeySize {
		return nil
	}
	copy(key.Secret[:], secret)
	return &key
}

func (a AccountKey) Serialize() []byte {
	data := []byte{AccountKeyKind}
	util.PutString(a.Account, &data)
	util.PutString(a.Role, &data)
	util.PutByteArray(a.Secret[:], &data)
	return data
}

// Network is the node and chain the wallet broadcasts to. The last entry
// wins.
type Network struct {
	Address string
	ChainID string
	Prefix  string
}

func ParseNetwork(data []byte) *Network {
	if len(data) == 0 || data[0] != NetworkKind {
		return nil
	}
	position := 1
	network := Network{}
	network.Address, position = util.ParseString(data, position)
	network.ChainID, position = util.ParseString(data, position)
	network.Prefix, position = util.ParseString(data, position)
	if position != len(data) {
		return nil
	}
	return &network
}

func (n Network) Serialize() []byte {
	data := []byte{NetworkKind}
	util.PutString(n.Address, &data)
	util.PutString(n.ChainID, &data)
	util.PutString(n.Prefix, &data)
	return data
}

func (n Network) Config() client.Config {
	cfg := client.DefaultConfig()
	cfg.Address = n.Address
	cfg.ChainID = n.ChainID
	cfg.AddressPrefix = n.Prefix
	return cfg
}

type Wallet struct {
	Keys    []AccountKey
	Network Network
	vault   *util.SecureVault
}

func newWallet(vault *util.SecureVault) *Wallet {
	testnet := client.TestnetConfig()
	return &Wallet{
		Keys:    make([]AccountKey, 0),
		Network: Network{Address: testnet.Address, ChainID: testnet.ChainID, Prefix: testnet.AddressPrefix},
		vault:   vault,
	}
}

func NewWallet(password []byte, fileName string) (*Wallet, error) {
	vault, err := util.NewSecureVault(password, fileName)
	if err != nil {
		return nil, err
	}
	return newWallet(vault), nil
}

func OpenWallet(password []byte, fileName string) (*Wallet, error) {
	vault, err := util.OpenVaultFromPassword(password, fileName)
	if err != nil {
		return nil, err
	}
	wallet := newWallet(vault)
	for _, entry := range vault.Entries {
		if len(entry) == 0 {
			continue
		}
		switch entry[0] {
		case AccountKeyKind:
			key := ParseAccountKey(entry)
			if key == nil {
				vault.Close()
				return nil, errors.New("could not parse account key")
			}
			wallet.setKey(*key)
		case NetworkKind:
			network := ParseNetwork(entry)
			if network == nil {
				vault.Close()
				return nil, errors.New("could not parse network")
			}
			wallet.Network = *network
		}
	}
	return wallet, nil
}

func (w *Wallet) Close() error {
	return w.vault.Close()
}

func (w *Wallet) setKey(key AccountKey) {
	for n, existing := range w.Keys {
		if existing.Account == key.Account && existing.Role == key.Role {
			w.Keys[n] = key
			return
		}
	}
	w.Keys = append(w.Keys, key)
}

// StoreKey keeps secret as the role key of account, replacing an earlier
// one.
func (w *Wallet) StoreKey(account, role string, secret crypto.PrivateKey) error {
	if !secret.IsValid() {
		return crypto.ErrInvalidKey
	}
	key := AccountKey{Account: account, Role: role, Secret: secret}
	if err := w.vault.NewEntry(key.Serialize()); err != nil {
		return err
	}
	w.setKey(key)
	return nil
}

func (w *Wallet) SetNetwork(network Network) error {
	if err := network.Config().Check(); err != nil {
		return err
	}
	if err := w.vault.NewEntry(network.Serialize()); err != nil {
		return err
	}
	w.Network = network
	return nil
}

// Key returns the role key of account or the zero key.
func (w *Wallet) Key(account, role string) crypto.PrivateKey {
	for _, key := range w.Keys {
		if key.Account == account && key.Role == role {
			return key.Secret
		}
	}
	return crypto.ZeroPrivateKey
}

func (w *Wallet) Client() (*client.Client, error) {
	c, err := client.New(w.Network.Config())
	if err != nil {
		return nil, fmt.Errorf("invalid wallet network: %w", err)
	}
	return c, nil
}
