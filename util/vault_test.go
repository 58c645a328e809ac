package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureVault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault")
	vault, err := NewSecureVault([]byte("pass phrase"), path)
	require.NoError(t, err)
	require.NoError(t, vault.NewEntry([]byte("first")))
	require.NoError(t, vault.NewEntry([]byte("second")))
	require.NoError(t, vault.Close())

	_, err = NewSecureVault([]byte("pass phrase"), path)
	assert.Error(t, err)

	reopened, err := OpenVaultFromPassword([]byte("pass phrase"), path)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("first"), []byte("second")}, reopened.Entries)
	require.NoError(t, reopened.NewEntry([]byte("third")))
	require.NoError(t, reopened.Close())

	again, err := OpenVaultFromPassword([]byte("pass phrase"), path)
	require.NoError(t, err)
	assert.Len(t, again.Entries, 3)
	require.NoError(t, again.Close())

	_, err = OpenVaultFromPassword([]byte("wrong"), path)
	assert.ErrorIs(t, err, ErrWrongPassword)
}
