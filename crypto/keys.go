/*
Package crypto implements the key material of the network: secp256k1 private
keys in wallet import format, prefixed base58 public keys and compact
recoverable signatures over sha256 digests.

A private key can be generated at random, decoded from its WIF string or
derived from an account login

	key := crypto.PrivateKeyFromLogin("alice", "password", "posting")
	fmt.Println(key.PublicKey().WithPrefix("STX"))

Private keys are never printed by String; use WIF explicitly.
*/
package crypto

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcutil/base58"
)

const (
	PrivateKeySize = 32
	PublicKeySize  = 33
	// DefaultAddressPrefix is the public key prefix of the main network.
	DefaultAddressPrefix = "STM"
	addressPrefixSize    = 3
	wifVersion           = 0x80
)

var (
	ErrInvalidKey       = errors.New("invalid private key")
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// Login roles understood by PrivateKeyFromLogin.
const (
	RoleOwner   = "owner"
	RoleActive  = "active"
	RolePosting = "posting"
	RoleMemo    = "memo"
)

type PrivateKey [PrivateKeySize]byte

var ZeroPrivateKey PrivateKey

type PublicKey struct {
	Key    [PublicKeySize]byte
	Prefix string
}

var ZeroPublicKey = PublicKey{Prefix: DefaultAddressPrefix}

func RandomPrivateKey() (PrivateKey, error) {
	secret, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return ZeroPrivateKey, fmt.Errorf("could not generate private key: %w", err)
	}
	var key PrivateKey
	copy(key[:], paddedBytes(secret.D))
	return key, nil
}

// PrivateKeyFromSeed returns the key sha256(seed).
func PrivateKeyFromSeed(seed string) PrivateKey {
	return PrivateKey(Hasher([]byte(seed)))
}

// PrivateKeyFromLogin derives the role key of an account from its password.
func PrivateKeyFromLogin(username, password, role string) PrivateKey {
	return PrivateKeyFromSeed(username + role + password)
}

// PrivateKeyFromString decodes a WIF encoded private key.
func PrivateKeyFromString(wif string) (PrivateKey, error) {
	decoded := base58.Decode(wif)
	if len(decoded) != 1+PrivateKeySize+4 || decoded[0] != wifVersion {
		return ZeroPrivateKey, ErrInvalidKey
	}
	checksum := DoubleHasher(decoded[:1+PrivateKeySize])
	if !bytes.Equal(checksum[:4], decoded[1+PrivateKeySize:]) {
		return ZeroPrivateKey, ErrInvalidKey
	}
	var key PrivateKey
	copy(key[:], decoded[1:1+PrivateKeySize])
	if !key.IsValid() {
		return ZeroPrivateKey, ErrInvalidKey
	}
	return key, nil
}

// IsValid is true for keys in the range [1, N-1] of the curve order.
func (k PrivateKey) IsValid() bool {
	d := new(big.Int).SetBytes(k[:])
	return d.Sign() > 0 && d.Cmp(btcec.S256().N) < 0
}

func (k PrivateKey) WIF() string {
	data := make([]byte, 0, 1+PrivateKeySize+4)
	data = append(data, wifVersion)
	data = append(data, k[:]...)
	checksum := DoubleHasher(data)
	data = append(data, checksum[:4]...)
	return base58.Encode(data)
}

func (k PrivateKey) PublicKey() PublicKey {
	_, pub := btcec.PrivKeyFromBytes(btcec.S256(), k[:])
	key := PublicKey{Prefix: DefaultAddressPrefix}
	copy(key.Key[:], pub.SerializeCompressed())
	return key
}

func (k PrivateKey) ecdsa() *btcec.PrivateKey {
	secret, _ := btcec.PrivKeyFromBytes(btcec.S256(), k[:])
	return secret
}

func paddedBytes(d *big.Int) []byte {
	bytes := d.Bytes()
	if len(bytes) >= PrivateKeySize {
		return bytes
	}
	padded := make([]byte, PrivateKeySize)
	copy(padded[PrivateKeySize-len(bytes):], bytes)
	return padded
}

// PublicKeyFromString decodes a prefixed public key such as STM8m5Ub...
func PublicKeyFromString(text string) (PublicKey, error) {
	if len(text) <= addressPrefixSize {
		return ZeroPublicKey, ErrInvalidPublicKey
	}
	prefix := text[:addressPrefixSize]
	decoded := base58.Decode(text[addressPrefixSize:])
	if len(decoded) != PublicKeySize+ChecksumSize {
		return ZeroPublicKey, ErrInvalidPublicKey
	}
	checksum := Ripemd160(decoded[:PublicKeySize])
	if !bytes.Equal(checksum[:ChecksumSize], decoded[PublicKeySize:]) {
		return ZeroPublicKey, ErrInvalidPublicKey
	}
	key := PublicKey{Prefix: prefix}
	copy(key.Key[:], decoded[:PublicKeySize])
	if !key.IsNull() {
		if _, err := btcec.ParsePubKey(key.Key[:], btcec.S256()); err != nil {
			return ZeroPublicKey, ErrInvalidPublicKey
		}
	}
	return key, nil
}

func (p PublicKey) WithPrefix(prefix string) PublicKey {
	p.Prefix = prefix
	return p
}

// IsNull is true for the all zero key used by the network to disable an
// authority.
func (p PublicKey) IsNull() bool {
	return p.Key == [PublicKeySize]byte{}
}

// Equal compares the key material only, ignoring the prefix.
func (p PublicKey) Equal(another PublicKey) bool {
	return p.Key == another.Key
}

func (p PublicKey) String() string {
	checksum := Ripemd160(p.Key[:])
	data := make([]byte, 0, PublicKeySize+ChecksumSize)
	data = append(data, p.Key[:]...)
	data = append(data, checksum[:ChecksumSize]...)
	prefix := p.Prefix
	if prefix == "" {
		prefix = DefaultAddressPrefix
	}
	return prefix + base58.Encode(data)
}

func (p PublicKey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PublicKey) UnmarshalText(text []byte) error {
	key, err := PublicKeyFromString(string(text))
	if err != nil {
		return err
	}
	*p = key
	return nil
}
