package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// StateHash fingerprints a full generator state (seed, draw count, lag table).
type StateHash Hash

func (h StateHash) String() string { return Hash(h).String() }
func (h StateHash) IsEmpty() bool  { return Hash(h).IsEmpty() }

// ComputeStateHash hashes the little-endian encoding of seed, count and every
// table cell in order. Two generators with equal hashes produce equal futures.
func ComputeStateHash(seed int32, count int, table []int32) StateHash {
	buf := make([]byte, 0, 4+8+4*len(table))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(seed))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(count))
	for _, v := range table {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	return StateHash(NewHash(buf))
}
