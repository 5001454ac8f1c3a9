package core

import (
	"testing"
)

func TestComputeStateHash_Deterministic(t *testing.T) {
	table := []int32{3, 1, 4, 1, 5, 9, 2, 6}

	h1 := ComputeStateHash(12345, 7, table)
	h2 := ComputeStateHash(12345, 7, append([]int32(nil), table...))
	if h1 != h2 {
		t.Errorf("State hashes not identical: %s vs %s", h1, h2)
	}
	if len(h1.String()) != 64 {
		t.Errorf("Expected hex sha256 (64 chars), got %d chars", len(h1.String()))
	}
}

func TestComputeStateHash_Unique(t *testing.T) {
	base := ComputeStateHash(12345, 7, []int32{1, 2, 3})

	testCases := []struct {
		name string
		hash StateHash
	}{
		{"different seed", ComputeStateHash(12346, 7, []int32{1, 2, 3})},
		{"different count", ComputeStateHash(12345, 8, []int32{1, 2, 3})},
		{"different table", ComputeStateHash(12345, 7, []int32{1, 2, 4})},
		{"negative seed", ComputeStateHash(-12345, 7, []int32{1, 2, 3})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.hash == base {
				t.Errorf("Expected different hash for %s", tc.name)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsRangeError(NewRangeError(10, 5, false)) {
		t.Error("Expected range error to match ErrInvalidRange")
	}
	if !IsStateError(NewStateError(56, 3)) {
		t.Error("Expected state error to match ErrInvalidState")
	}
	if !IsInputError(NewRestoreError(-1)) {
		t.Error("Expected restore error to be an input error")
	}
	if !IsNotFoundError(ErrSnapshotNotFound) {
		t.Error("Expected snapshot not found to match ErrNotFound")
	}
	if !IsDeterminismError(NewSeedMismatchError("s", 0, 1, 2)) {
		t.Error("Expected seed mismatch to be a determinism error")
	}
	if IsInputError(ErrNonDeterministic) {
		t.Error("Determinism error must not be classified as input error")
	}
}
