package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wikiWIF = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
	wikiHex = "0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d"
)

func TestPrivateKeyFromString(t *testing.T) {
	key, err := PrivateKeyFromString(wikiWIF)
	require.NoError(t, err)
	assert.Equal(t, wikiHex, hex.EncodeToString(key[:]))
	assert.Equal(t, wikiWIF, key.WIF())
}

func TestPrivateKeyFromStringInvalid(t *testing.T) {
	for _, text := range []string{
		"not-a-key",
		"",
		wikiWIF[:len(wikiWIF)-1] + "K",
		"5" + strings.Repeat("1", 50),
	} {
		_, err := PrivateKeyFromString(text)
		assert.ErrorIs(t, err, ErrInvalidKey, text)
	}
}

func TestPrivateKeyValidity(t *testing.T) {
	assert.False(t, ZeroPrivateKey.IsValid())
	key, err := RandomPrivateKey()
	require.NoError(t, err)
	assert.True(t, key.IsValid())
	var overflow PrivateKey
	for i := range overflow {
		overflow[i] = 0xff
	}
	assert.False(t, overflow.IsValid())
}

func TestPrivateKeyFromLogin(t *testing.T) {
	posting := PrivateKeyFromLogin("alice", "secret", RolePosting)
	active := PrivateKeyFromLogin("alice", "secret", RoleActive)
	assert.NotEqual(t, posting, active)
	assert.Equal(t, PrivateKeyFromSeed("alicepostingsecret"), posting)
	assert.Equal(t, posting, PrivateKeyFromLogin("alice", "secret", RolePosting))
}

func TestPublicKeyString(t *testing.T) {
	key := PrivateKeyFromLogin("bob", "hunter2", RoleOwner)
	pub := key.PublicKey()
	text := pub.String()
	require.True(t, strings.HasPrefix(text, DefaultAddressPrefix))

	decoded, err := PublicKeyFromString(text)
	require.NoError(t, err)
	assert.Equal(t, pub, decoded)

	testnet := pub.WithPrefix("STX")
	assert.True(t, strings.HasPrefix(testnet.String(), "STX"))
	assert.Equal(t, text[3:], testnet.String()[3:])
	assert.True(t, testnet.Equal(pub))
}

func TestPublicKeyNull(t *testing.T) {
	decoded, err := PublicKeyFromString(ZeroPublicKey.String())
	require.NoError(t, err)
	assert.True(t, decoded.IsNull())
}

func TestPublicKeyFromStringInvalid(t *testing.T) {
	pub := PrivateKeyFromSeed("seed").PublicKey().String()
	corrupted := pub[:len(pub)-1] + "1"
	if corrupted == pub {
		corrupted = pub[:len(pub)-1] + "2"
	}
	_, err := PublicKeyFromString(corrupted)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
	_, err = PublicKeyFromString("STM")
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestPublicKeyText(t *testing.T) {
	pub := PrivateKeyFromSeed("text").PublicKey()
	text, err := pub.MarshalText()
	require.NoError(t, err)
	var decoded PublicKey
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, pub, decoded)
}
