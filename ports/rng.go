package ports

import (
	"context"

	"replayrng/domain/rng"
)

// StreamPort provides seeded random number generation for deterministic operations
type StreamPort interface {
	// SeededStream creates a deterministic generator for a named operation
	SeededStream(ctx context.Context, name string, seed int32) (*rng.Generator, error)

	// Stream creates a deterministic generator for a specific run/stage/key.
	// The same arguments always yield a generator with the same sequence.
	Stream(ctx context.Context, runID, stageName, key string, baseSeed int32) (*rng.Generator, error)

	// ValidateSeed ensures the seed produces the expected leading draws
	ValidateSeed(ctx context.Context, name string, seed int32, expected []int32) error
}
