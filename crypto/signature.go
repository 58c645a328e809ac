package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
)

// SignatureSize is a recovery byte followed by r and s.
const SignatureSize = 65

var ErrInvalidSignature = errors.New("invalid signature")

type Signature [SignatureSize]byte

var ZeroSignature Signature

// Sign produces a deterministic (RFC 6979) compact signature of the digest.
// The recovery byte carries the compressed key flag.
func (k PrivateKey) Sign(digest Hash) (Signature, error) {
	if !k.IsValid() {
		return ZeroSignature, ErrInvalidKey
	}
	compact, err := btcec.SignCompact(btcec.S256(), k.ecdsa(), digest[:], true)
	if err != nil {
		return ZeroSignature, fmt.Errorf("could not sign digest: %w", err)
	}
	if len(compact) != SignatureSize {
		return ZeroSignature, ErrInvalidSignature
	}
	var signature Signature
	copy(signature[:], compact)
	return signature, nil
}

// Recover returns the public key that produced the signature over digest.
func (s Signature) Recover(digest Hash) (PublicKey, error) {
	pub, _, err := btcec.RecoverCompact(btcec.S256(), s[:], digest[:])
	if err != nil {
		return ZeroPublicKey, ErrInvalidSignature
	}
	key := PublicKey{Prefix: DefaultAddressPrefix}
	copy(key.Key[:], pub.SerializeCompressed())
	return key, nil
}

func (s Signature) Verify(digest Hash, key PublicKey) bool {
	recovered, err := s.Recover(digest)
	if err != nil {
		return false
	}
	return recovered.Equal(key)
}

func SignatureFromString(text string) (Signature, error) {
	bytes, err := hex.DecodeString(text)
	if err != nil || len(bytes) != SignatureSize {
		return ZeroSignature, ErrInvalidSignature
	}
	var signature Signature
	copy(signature[:], bytes)
	return signature, nil
}

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signature) UnmarshalText(text []byte) error {
	signature, err := SignatureFromString(string(text))
	if err != nil {
		return err
	}
	*s = signature
	return nil
}
