package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/ripemd160"
)

const Size = sha256.Size

// ChecksumSize is the number of ripemd160 bytes appended to encoded public
// keys.
const ChecksumSize = 4

var ErrInvalidHash = errors.New("invalid hash")

type Hash [Size]byte

var ZeroHash Hash

func Hasher(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// DoubleHasher is sha256(sha256(data)), used by the WIF checksum.
func DoubleHasher(data []byte) Hash {
	first := sha256.Sum256(data)
	return Hash(sha256.Sum256(first[:]))
}

func Ripemd160(data []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}

func BytesToHash(bytes []byte) Hash {
	var hash Hash
	if len(bytes) != Size {
		return hash
	}
	copy(hash[:], bytes)
	return hash
}

func DecodeHash(text string) (Hash, error) {
	bytes, err := hex.DecodeString(text)
	if err != nil || len(bytes) != Size {
		return ZeroHash, ErrInvalidHash
	}
	return BytesToHash(bytes), nil
}

func (h Hash) Equal(another Hash) bool {
	return h == another
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	hash, err := DecodeHash(string(text))
	if err != nil {
		return err
	}
	*h = hash
	return nil
}
