package transaction

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/operations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVote(t *testing.T) *Transaction {
	tx, err := Build([]operations.Operation{vote()}, freshness, time.Minute, now)
	require.NoError(t, err)
	return tx
}

func TestSignVerify(t *testing.T) {
	tx := buildVote(t)
	posting := crypto.PrivateKeyFromLogin("alice", "secret", crypto.RolePosting)
	active := crypto.PrivateKeyFromLogin("alice", "secret", crypto.RoleActive)

	signed, err := SignAt(tx, chainID, now, posting, active)
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 2)
	require.NoError(t, signed.Verify(chainID, posting.PublicKey(), active.PublicKey()))

	assert.ErrorIs(t, signed.Verify(chainID, active.PublicKey(), posting.PublicKey()), ErrSignatureMissing)
	assert.ErrorIs(t, signed.Verify(chainID, posting.PublicKey()), ErrSignatureMissing)

	otherChain := make([]byte, 32)
	otherChain[0] = 1
	assert.ErrorIs(t, signed.Verify(otherChain, posting.PublicKey(), active.PublicKey()), ErrSignatureMissing)

	keys, err := signed.Keys(chainID)
	require.NoError(t, err)
	assert.True(t, keys[0].Equal(posting.PublicKey()))
	assert.True(t, keys[1].Equal(active.PublicKey()))
}

func TestSignDeterministic(t *testing.T) {
	key := crypto.PrivateKeyFromSeed("signer")
	first, err := SignAt(buildVote(t), chainID, now, key)
	require.NoError(t, err)
	second, err := SignAt(buildVote(t), chainID, now, key)
	require.NoError(t, err)
	assert.Equal(t, first.Signatures, second.Signatures)
}

func TestSignWIF(t *testing.T) {
	key := crypto.PrivateKeyFromSeed("wif")
	tx, err := Build([]operations.Operation{vote()}, freshness, time.Hour, time.Now())
	require.NoError(t, err)

	signed, err := SignWIF(tx, chainID, key.WIF())
	require.NoError(t, err)
	require.NoError(t, signed.Verify(chainID, key.PublicKey()))

	_, err = SignWIF(tx, chainID, key.WIF(), "not-a-key")
	assert.ErrorIs(t, err, crypto.ErrInvalidKey)
	assert.NotContains(t, err.Error(), "not-a-key")
}

func TestSignErrors(t *testing.T) {
	tx := buildVote(t)
	_, err := SignAt(tx, chainID, now)
	assert.ErrorIs(t, err, ErrNoKeys)

	_, err = SignAt(tx, chainID, now, crypto.PrivateKeyFromSeed("ok"), crypto.ZeroPrivateKey)
	assert.ErrorIs(t, err, crypto.ErrInvalidKey)

	_, err = SignAt(tx, chainID, tx.Expiration.Time, crypto.PrivateKeyFromSeed("ok"))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestSignedJSON(t *testing.T) {
	key := crypto.PrivateKeyFromSeed("json")
	signed, err := SignAt(buildVote(t), chainID, now, key)
	require.NoError(t, err)
	encoded, err := json.Marshal(signed)
	require.NoError(t, err)

	var decoded struct {
		Expiration string   `json:"expiration"`
		Signatures []string `json:"signatures"`
	}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "2024-03-01T12:01:00", decoded.Expiration)
	require.Len(t, decoded.Signatures, 1)
	assert.Equal(t, signed.Signatures[0].String(), decoded.Signatures[0])
	assert.Len(t, decoded.Signatures[0], 130)
}

func TestSignedFromJSON(t *testing.T) {
	key := crypto.PrivateKeyFromSeed("json")
	signed, err := SignAt(buildVote(t), chainID, now, key)
	require.NoError(t, err)
	encoded, err := json.Marshal(signed)
	require.NoError(t, err)

	var decoded Signed
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, signed.ID(), decoded.ID())
	assert.Equal(t, signed.Serialize(), decoded.Serialize())
	require.NoError(t, decoded.Verify(chainID, key.PublicKey()))

	var unsigned Transaction
	require.NoError(t, json.Unmarshal(encoded, &unsigned))
	assert.Equal(t, signed.ID(), unsigned.ID())

	assert.Error(t, json.Unmarshal([]byte(`{"operations":[["vote",1]]}`), &decoded))
}
