package rng

import (
	"math"

	"replayrng/domain/core"
)

const (
	// StateLength is the size of a lag table: the pointer cell plus 55 values.
	StateLength = 56

	// MaxValue is the exclusive upper bound of a raw draw.
	MaxValue = math.MaxInt32

	basicSeed    = 161803398
	helperInc    = 21
	tapDistance  = helperInc + 1
	warmupOffset = 30
	warmupPasses = 4
	pointerIndex = 0
)

// Snapshot is an immutable copy of a generator's state. It is safe to share
// between goroutines and to hand to persistence layers.
type Snapshot struct {
	seed  int32
	count int
	table [StateLength]int32
}

// NewSnapshot validates a serialized state and returns it as a Snapshot.
func NewSnapshot(seed int32, count int, table []int32) (Snapshot, error) {
	if len(table) != StateLength {
		return Snapshot{}, core.NewStateError(StateLength, len(table))
	}
	if count < 0 {
		return Snapshot{}, core.NewRestoreError(count)
	}
	if table[pointerIndex] < 0 || table[pointerIndex] >= StateLength {
		return Snapshot{}, core.NewStateCellError(pointerIndex, table[pointerIndex])
	}
	for i := pointerIndex + 1; i < StateLength; i++ {
		if table[i] < 0 {
			return Snapshot{}, core.NewStateCellError(i, table[i])
		}
	}

	s := Snapshot{seed: seed, count: count}
	copy(s.table[:], table)
	return s, nil
}

// Seed returns the seed the state was created from.
func (s Snapshot) Seed() int32 { return s.seed }

// Count returns the number of consuming draws taken.
func (s Snapshot) Count() int { return s.count }

// Table returns a copy of the lag table.
func (s Snapshot) Table() []int32 {
	out := make([]int32, StateLength)
	copy(out, s.table[:])
	return out
}

// Fingerprint hashes the full state.
func (s Snapshot) Fingerprint() core.StateHash {
	return core.ComputeStateHash(s.seed, s.count, s.table[:])
}

// CopyState returns an independent deep copy of table. It fails with
// core.ErrInvalidState when table does not hold exactly StateLength cells.
func CopyState(table []int32) ([]int32, error) {
	if len(table) != StateLength {
		return nil, core.NewStateError(StateLength, len(table))
	}
	out := make([]int32, StateLength)
	copy(out, table)
	return out, nil
}
