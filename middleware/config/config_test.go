package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/freehandle/minddapp/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	data, err := json.Marshal(StandardServerConfig)
	require.NoError(t, err)
	cfg, err := LoadConfig[ServerConfig](writeFile(t, "config.json", data))
	require.NoError(t, err)
	assert.Equal(t, StandardServerConfig, *cfg)

	custom, err := LoadConfig[ServerConfig](writeFile(t, "custom.json", []byte(`{
		"network": {"address": "http://localhost:8090", "chainId": "0000000000000000000000000000000000000000000000000000000000000000", "addressPrefix": "STM"},
		"board": {"mainTag": "minddappquestion", "bountyAccount": "demo", "bountySymbol": "SBD", "listLimit": 20},
		"gateway": {"hostname": "127.0.0.1", "port": 8000},
		"logLevel": "DEBUG"
	}`)))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, custom.LogLevel)
	assert.Equal(t, 20, custom.Board.ListLimit)

	_, err = LoadConfig[ServerConfig](writeFile(t, "bad.json", []byte(`{"gateway": {"port": 0}}`)))
	assert.Error(t, err)
	_, err = LoadConfig[ServerConfig](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = LoadConfig[ServerConfig](writeFile(t, "garbage.json", []byte(`{`)))
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	cfg, err := ParseJSON[ServerConfig](`{"gateway": {"hostname": "localhost", "port": 1}}`)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Gateway.Port)
	_, err = ParseJSON[ServerConfig](`nope`)
	assert.Error(t, err)
}

func TestParseCredentials(t *testing.T) {
	key := crypto.PrivateKeyFromSeed("credentials")
	pem, err := crypto.EncodePEMPrivateKey(key)
	require.NoError(t, err)

	parsed, err := ParseCredentials(writeFile(t, "key.pem", pem), key.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	parsed, err = ParseCredentials(writeFile(t, "key.wif", []byte(key.WIF()+"\n")), crypto.ZeroPublicKey)
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	other := crypto.PrivateKeyFromSeed("other").PublicKey()
	_, err = ParseCredentials(writeFile(t, "key2.pem", pem), other)
	assert.Error(t, err)

	_, err = ParseCredentials(writeFile(t, "bad.wif", []byte("not-a-key")), crypto.ZeroPublicKey)
	assert.Error(t, err)
}
