package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freehandle/minddapp/crypto"
)

var (
	ErrExpired          = errors.New("transaction expiration is not in the future")
	ErrNoKeys           = errors.New("no signing keys")
	ErrSignatureMissing = errors.New("signature does not match expected key")
)

// Signed is a transaction with one signature per signing key, in key order.
type Signed struct {
	*Transaction
	Signatures []crypto.Signature
}

// Sign signs tx with every key using the system clock.
func Sign(tx *Transaction, chainID []byte, keys ...crypto.PrivateKey) (*Signed, error) {
	return SignAt(tx, chainID, time.Now(), keys...)
}

// SignAt signs tx with every key. All keys are checked before any signature
// is produced and tx must expire strictly after now.
func SignAt(tx *Transaction, chainID []byte, now time.Time, keys ...crypto.PrivateKey) (*Signed, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	for n, key := range keys {
		if !key.IsValid() {
			return nil, fmt.Errorf("key %d: %w", n, crypto.ErrInvalidKey)
		}
	}
	if !tx.Expiration.After(now) {
		return nil, ErrExpired
	}
	digest := tx.Digest(chainID)
	signed := &Signed{Transaction: tx, Signatures: make([]crypto.Signature, 0, len(keys))}
	for n, key := range keys {
		signature, err := key.Sign(digest)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", n, err)
		}
		signed.Signatures = append(signed.Signatures, signature)
	}
	return signed, nil
}

// SignWIF parses the WIF encoded keys and signs tx with them.
func SignWIF(tx *Transaction, chainID []byte, wifs ...string) (*Signed, error) {
	keys, err := ParseKeys(wifs...)
	if err != nil {
		return nil, err
	}
	return Sign(tx, chainID, keys...)
}

// ParseKeys decodes WIF keys. The error wraps crypto.ErrInvalidKey and never
// contains the key text.
func ParseKeys(wifs ...string) ([]crypto.PrivateKey, error) {
	keys := make([]crypto.PrivateKey, 0, len(wifs))
	for n, wif := range wifs {
		key, err := crypto.PrivateKeyFromString(wif)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", n, crypto.ErrInvalidKey)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Verify checks that the n-th signature was produced by the n-th expected
// key.
func (s *Signed) Verify(chainID []byte, expected ...crypto.PublicKey) error {
	if len(expected) != len(s.Signatures) {
		return fmt.Errorf("%w: %d signatures for %d keys", ErrSignatureMissing, len(s.Signatures), len(expected))
	}
	digest := s.Digest(chainID)
	for n, signature := range s.Signatures {
		if !signature.Verify(digest, expected[n]) {
			return fmt.Errorf("%w: signature %d", ErrSignatureMissing, n)
		}
	}
	return nil
}

// Keys recovers the public keys that signed the transaction.
func (s *Signed) Keys(chainID []byte) ([]crypto.PublicKey, error) {
	digest := s.Digest(chainID)
	keys := make([]crypto.PublicKey, 0, len(s.Signatures))
	for _, signature := range s.Signatures {
		key, err := signature.Recover(digest)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *Signed) MarshalJSON() ([]byte, error) {
	e, err := s.Transaction.envelope()
	if err != nil {
		return nil, err
	}
	e.Signatures = s.Signatures
	if e.Signatures == nil {
		e.Signatures = []crypto.Signature{}
	}
	return json.Marshal(e)
}

func (s *Signed) UnmarshalJSON(data []byte) error {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	tx := &Transaction{}
	if err := e.decode(tx); err != nil {
		return err
	}
	s.Transaction = tx
	s.Signatures = e.Signatures
	return nil
}
