package stream

import (
	"context"

	"replayrng/domain/core"
	"replayrng/domain/rng"
	"replayrng/ports"
)

// Adapter implements ports.StreamPort on top of rng.Generator
type Adapter struct{}

// NewAdapter creates a stream adapter
func NewAdapter() ports.StreamPort {
	return &Adapter{}
}

// SeededStream creates a deterministic generator for a named operation. The
// name only labels the stream; the sequence depends on seed alone.
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int32) (*rng.Generator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rng.New(seed), nil
}

// Stream creates a deterministic generator for a specific run/stage/key
func (a *Adapter) Stream(ctx context.Context, runID, stageName, key string, baseSeed int32) (*rng.Generator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rng.New(DeriveSeed(baseSeed, runID, stageName, key)), nil
}

// ValidateSeed draws len(expected) values and compares them in order
func (a *Adapter) ValidateSeed(ctx context.Context, name string, seed int32, expected []int32) error {
	g, err := a.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		if got := g.Next(); got != want {
			return core.NewSeedMismatchError(name, i, want, got)
		}
	}
	return nil
}

// DeriveSeed folds every part into baseSeed in order, so swapping or
// shifting parts yields a different seed. Arithmetic wraps at 32 bits, so
// the derivation is identical on every platform.
func DeriveSeed(baseSeed int32, parts ...string) int32 {
	seed := uint32(baseSeed)
	for _, part := range parts {
		seed = seed*33 + hashString(part)
	}
	return int32(seed)
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for i := 0; i < len(s); i++ {
		hash = ((hash << 5) + hash) + uint32(s[i]) // djb2
	}
	return hash
}
