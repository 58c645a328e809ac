package transaction

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/freehandle/minddapp/protocol/operations"
)

// DefaultExpireTime is the time to live of a transaction when the caller
// does not choose one.
const DefaultExpireTime = time.Minute

var (
	ErrInvalidBlockID = errors.New("invalid head block id")
	ErrNoOperations   = errors.New("transaction without operations")
)

// Freshness is the chain reference a transaction is built against, taken
// from the dynamic global properties of a node.
type Freshness struct {
	HeadBlockNumber uint32
	HeadBlockID     string
}

// ReferencePrefix reads the little endian uint32 at bytes [4, 8) of a hex
// block id.
func ReferencePrefix(blockID string) (uint32, error) {
	id, err := hex.DecodeString(blockID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBlockID, err)
	}
	if len(id) < 8 {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidBlockID, len(id))
	}
	return binary.LittleEndian.Uint32(id[4:8]), nil
}

// Build assembles an unsigned transaction expiring ttl after now. The same
// inputs always yield the same transaction.
func Build(ops []operations.Operation, freshness Freshness, ttl time.Duration, now time.Time) (*Transaction, error) {
	return BuildWithExtensions(ops, nil, freshness, ttl, now)
}

func BuildWithExtensions(ops []operations.Operation, extensions []string, freshness Freshness, ttl time.Duration, now time.Time) (*Transaction, error) {
	if len(ops) == 0 {
		return nil, ErrNoOperations
	}
	prefix, err := ReferencePrefix(freshness.HeadBlockID)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		RefBlockNum:    uint16(freshness.HeadBlockNumber & 0xFFFF),
		RefBlockPrefix: prefix,
		Expiration:     NewTime(now.Add(ttl)),
		Operations:     append([]operations.Operation{}, ops...),
		Extensions:     append([]string{}, extensions...),
	}, nil
}
