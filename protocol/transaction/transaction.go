/*
Package transaction assembles, serializes and signs network transactions.

A Transaction is the unsigned envelope: a reference to a recent block, an
expiration and the ordered operations. Build fills the envelope from a
Freshness snapshot of the chain; Sign produces a Signed transaction carrying
one compact signature per key, computed over

	sha256(chain id || serialized transaction)

The binary serialization follows the network's canonical layout: little
endian integers, varint prefixed arrays and strings, expiration as unix
seconds.
*/
package transaction

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/protocol/operations"
	"github.com/freehandle/minddapp/util"
)

// TimeLayout is the network timestamp format. Timestamps are UTC and carry
// no zone suffix.
const TimeLayout = "2006-01-02T15:04:05"

// Time is a UTC instant with second precision.
type Time struct {
	time.Time
}

func NewTime(t time.Time) Time {
	return Time{Time: t.UTC().Truncate(time.Second)}
}

func ParseTime(text string) (Time, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSuffix(text, "Z"))
	if err != nil {
		return Time{}, err
	}
	return Time{Time: t}, nil
}

func (t Time) String() string {
	return t.UTC().Format(TimeLayout)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseTime(text)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Transaction struct {
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Expiration     Time
	Operations     []operations.Operation
	Extensions     []string
}

func (t *Transaction) Serialize() []byte {
	bytes := make([]byte, 0)
	util.PutUint16(t.RefBlockNum, &bytes)
	util.PutUint32(t.RefBlockPrefix, &bytes)
	util.PutTime(t.Expiration.Time, &bytes)
	util.PutVarint32(uint32(len(t.Operations)), &bytes)
	for _, op := range t.Operations {
		operations.Put(op, &bytes)
	}
	util.PutStringArray(t.Extensions, &bytes)
	return bytes
}

// Digest is the message signed by every key of the transaction.
func (t *Transaction) Digest(chainID []byte) crypto.Hash {
	message := append(append([]byte{}, chainID...), t.Serialize()...)
	return crypto.Hasher(message)
}

// ID is the transaction id reported by the network: the first 20 bytes of
// the hash of the serialized transaction, hex encoded.
func (t *Transaction) ID() string {
	hash := crypto.Hasher(t.Serialize())
	return hex.EncodeToString(hash[:20])
}

type envelope struct {
	RefBlockNum    uint16             `json:"ref_block_num"`
	RefBlockPrefix uint32             `json:"ref_block_prefix"`
	Expiration     Time               `json:"expiration"`
	Operations     []json.RawMessage  `json:"operations"`
	Extensions     []string           `json:"extensions"`
	Signatures     []crypto.Signature `json:"signatures,omitempty"`
}

func (t *Transaction) envelope() (*envelope, error) {
	ops := make([]json.RawMessage, 0, len(t.Operations))
	for n, op := range t.Operations {
		encoded, err := operations.MarshalJSON(op)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", n, err)
		}
		ops = append(ops, encoded)
	}
	extensions := t.Extensions
	if extensions == nil {
		extensions = []string{}
	}
	return &envelope{
		RefBlockNum:    t.RefBlockNum,
		RefBlockPrefix: t.RefBlockPrefix,
		Expiration:     t.Expiration,
		Operations:     ops,
		Extensions:     extensions,
	}, nil
}

func (t *Transaction) MarshalJSON() ([]byte, error) {
	e, err := t.envelope()
	if err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// decode fills t from a decoded envelope.
func (e *envelope) decode(t *Transaction) error {
	ops := make([]operations.Operation, 0, len(e.Operations))
	for n, encoded := range e.Operations {
		op, err := operations.UnmarshalJSON(encoded)
		if err != nil {
			return fmt.Errorf("operation %d: %w", n, err)
		}
		ops = append(ops, op)
	}
	*t = Transaction{
		RefBlockNum:    e.RefBlockNum,
		RefBlockPrefix: e.RefBlockPrefix,
		Expiration:     e.Expiration,
		Operations:     ops,
		Extensions:     e.Extensions,
	}
	return nil
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	return e.decode(t)
}
