package util

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const saltSize = 32

// vaultMagic is the first sealed entry of every vault, used to detect a wrong
// pass phrase.
var vaultMagic = []byte("minddapp secure vault v1")

var ErrWrongPassword = errors.New("wrong pass phrase or corrupted vault")

// SecureVault is an append only file of entries sealed with a key derived
// from a pass phrase.
type SecureVault struct {
	Entries [][]byte
	file    io.WriteCloser
	cipher  cipher.AEAD
}

func (s *SecureVault) NewEntry(data []byte) error {
	sealed, err := seal(s.cipher, data)
	if err != nil {
		return err
	}
	bytes := make([]byte, 0)
	PutByteArray(sealed, &bytes)
	if n, err := s.file.Write(bytes); n != len(bytes) || err != nil {
		return fmt.Errorf("could not write entry to secure vault file: %v", err)
	}
	s.Entries = append(s.Entries, data)
	return nil
}

func (s *SecureVault) Close() error {
	return s.file.Close()
}

func cipherFromPassword(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, 32768, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("could not generate cipher key from password and salt: %v", err)
	}
	return chacha20poly1305.NewX(key)
}

func seal(aead cipher.AEAD, data []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("could not generate nonce: %v", err)
	}
	return aead.Seal(nonce, nonce, data, nil), nil
}

func open(aead cipher.AEAD, sealed []byte) ([]byte, error) {
	if len(sealed) < aead.NonceSize() {
		return nil, ErrWrongPassword
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	naked, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return naked, nil
}

func NewSecureVault(password []byte, fileName string) (*SecureVault, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("could not generate salt: %v", err)
	}
	aead, err := cipherFromPassword(password, salt)
	if err != nil {
		return nil, err
	}
	sealed, err := seal(aead, vaultMagic)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("could not create secure vault file: %v", err)
	}
	data := append([]byte{}, salt...)
	PutByteArray(sealed, &data)
	if n, err := file.Write(data); n != len(data) || err != nil {
		file.Close()
		return nil, fmt.Errorf("could not write header to secure vault file: %v", err)
	}
	vault := SecureVault{
		Entries: make([][]byte, 0),
		file:    file,
		cipher:  aead,
	}
	return &vault, nil
}

func OpenVaultFromPassword(password []byte, fileName string) (*SecureVault, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not read secure vault: %v", err)
	}
	if len(data) < saltSize {
		return nil, fmt.Errorf("vault file seems corrupted")
	}
	aead, err := cipherFromPassword(password, data[:saltSize])
	if err != nil {
		return nil, err
	}
	position := saltSize
	items := make([][]byte, 0)
	for position < len(data) {
		var sealed []byte
		sealed, position = ParseByteArray(data, position)
		if position > len(data) {
			return nil, fmt.Errorf("vault file seems corrupted")
		}
		naked, err := open(aead, sealed)
		if err != nil {
			return nil, err
		}
		items = append(items, naked)
	}
	if len(items) == 0 || string(items[0]) != string(vaultMagic) {
		return nil, ErrWrongPassword
	}
	file, err := os.OpenFile(fileName, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("could not open secure vault: %v", err)
	}
	vault := SecureVault{
		Entries: items[1:],
		file:    file,
		cipher:  aead,
	}
	return &vault, nil
}
