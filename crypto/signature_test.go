package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRecover(t *testing.T) {
	key := PrivateKeyFromLogin("alice", "password", RolePosting)
	digest := Hasher([]byte("message"))
	signature, err := key.Sign(digest)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, signature[0], byte(31))
	assert.LessOrEqual(t, signature[0], byte(34))

	recovered, err := signature.Recover(digest)
	require.NoError(t, err)
	assert.True(t, recovered.Equal(key.PublicKey()))
	assert.True(t, signature.Verify(digest, key.PublicKey()))

	other := PrivateKeyFromLogin("bob", "password", RolePosting)
	assert.False(t, signature.Verify(digest, other.PublicKey()))
	assert.False(t, signature.Verify(Hasher([]byte("another")), key.PublicKey()))
}

func TestSignDeterministic(t *testing.T) {
	key := PrivateKeyFromSeed("deterministic")
	digest := Hasher([]byte("payload"))
	first, err := key.Sign(digest)
	require.NoError(t, err)
	second, err := key.Sign(digest)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignInvalidKey(t *testing.T) {
	_, err := ZeroPrivateKey.Sign(Hasher(nil))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSignatureText(t *testing.T) {
	signature, err := PrivateKeyFromSeed("text").Sign(Hasher([]byte("x")))
	require.NoError(t, err)
	decoded, err := SignatureFromString(signature.String())
	require.NoError(t, err)
	assert.Equal(t, signature, decoded)

	_, err = SignatureFromString("zz")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestHashText(t *testing.T) {
	hash := Hasher([]byte("hash"))
	decoded, err := DecodeHash(hash.String())
	require.NoError(t, err)
	assert.True(t, hash.Equal(decoded))
	_, err = DecodeHash("00")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
