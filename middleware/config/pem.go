package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/freehandle/minddapp/crypto"
)

// ParseCredentials reads a private key file, either PEM encoded or a single
// WIF line. When expected is not the zero key the file must hold its secret.
func ParseCredentials(path string, expected crypto.PublicKey) (crypto.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return crypto.ZeroPrivateKey, fmt.Errorf("could not read credentials file: %v", err)
	}
	var pk crypto.PrivateKey
	if bytes.Contains(data, []byte("-----BEGIN")) {
		pk, err = crypto.ParsePEMPrivateKey(data)
	} else {
		pk, err = crypto.PrivateKeyFromString(string(bytes.TrimSpace(data)))
	}
	if err != nil {
		return crypto.ZeroPrivateKey, fmt.Errorf("could not parse credentials file: %v", err)
	}
	if !expected.IsNull() && !pk.PublicKey().Equal(expected) {
		return crypto.ZeroPrivateKey, fmt.Errorf("credentials file does not match key: %v instead of %v", pk.PublicKey(), expected)
	}
	return pk, nil
}
