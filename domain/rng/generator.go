package rng

import (
	"fmt"
	"math"

	"replayrng/domain/core"
)

// Generator is the exclusive owner of one generator state. Every consuming
// call advances the lag table by one step and the draw count by one.
type Generator struct {
	seed  int32
	count int
	table [StateLength]int32
}

// New creates a generator for seed with a draw count of zero.
func New(seed int32) *Generator {
	g := &Generator{seed: seed}
	fillState(g.table[:], seed)
	return g
}

// FromSnapshot creates an independent generator that continues from s.
func FromSnapshot(s Snapshot) *Generator {
	return &Generator{seed: s.seed, count: s.count, table: s.table}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int32 { return g.seed }

// Count returns the number of consuming draws taken so far.
func (g *Generator) Count() int { return g.count }

// Snapshot returns an immutable copy of the current state.
func (g *Generator) Snapshot() Snapshot {
	return Snapshot{seed: g.seed, count: g.count, table: g.table}
}

// Fingerprint hashes the current state.
func (g *Generator) Fingerprint() core.StateHash {
	return core.ComputeStateHash(g.seed, g.count, g.table[:])
}

// Next consumes one draw and returns a value in [0, MaxValue).
func (g *Generator) Next() int32 {
	v, _ := g.Range(0, MaxValue, false)
	return v
}

// NextFloat consumes one draw and returns a value in [0, math.MaxFloat32].
func (g *Generator) NextFloat() float32 {
	v, _ := g.RangeFloat(0, math.MaxFloat32, true)
	return v
}

// Range consumes one draw and maps it into [min, max), or [min, max] when
// maxInclusive is set. On error neither the table nor the count change.
func (g *Generator) Range(min, max int32, maxInclusive bool) (int32, error) {
	v, err := MapRange(min, max, g.table[:], maxInclusive)
	if err != nil {
		return 0, err
	}
	g.count++
	return v, nil
}

// RangeFloat is the floating point counterpart of Range.
func (g *Generator) RangeFloat(min, max float32, maxInclusive bool) (float32, error) {
	v, err := MapRangeFloat(min, max, g.table[:], maxInclusive)
	if err != nil {
		return 0, err
	}
	g.count++
	return v, nil
}

// Peek returns the value the next call to Next would return without
// consuming it.
func (g *Generator) Peek() int32 {
	v, _ := g.PeekRange(0, MaxValue, false)
	return v
}

// PeekFloat returns the value the next call to NextFloat would return
// without consuming it.
func (g *Generator) PeekFloat() float32 {
	v, _ := g.PeekRangeFloat(0, math.MaxFloat32, true)
	return v
}

// PeekRange returns what Range(min, max, maxInclusive) would return next,
// leaving the generator unchanged.
func (g *Generator) PeekRange(min, max int32, maxInclusive bool) (int32, error) {
	clone, err := CopyState(g.table[:])
	if err != nil {
		return 0, err
	}
	return MapRange(min, max, clone, maxInclusive)
}

// PeekRangeFloat returns what RangeFloat(min, max, maxInclusive) would
// return next, leaving the generator unchanged.
func (g *Generator) PeekRangeFloat(min, max float32, maxInclusive bool) (float32, error) {
	clone, err := CopyState(g.table[:])
	if err != nil {
		return 0, err
	}
	return MapRangeFloat(min, max, clone, maxInclusive)
}

// Restore moves the generator to the state it had after count draws, either
// in the past or in the future. The table is rebuilt from the seed and
// replayed, so the cost is O(count) regardless of direction.
func (g *Generator) Restore(count int) error {
	if err := replay(g.table[:], g.seed, count); err != nil {
		return err
	}
	g.count = count
	return nil
}

// Verify replays the generator from its seed and checks that the live table
// matches the one its draw count implies.
func (g *Generator) Verify() error {
	expected, err := RestoreState(g.seed, g.count)
	if err != nil {
		return err
	}
	for i, v := range expected {
		if g.table[i] != v {
			return fmt.Errorf("%w: seed %d count %d diverges at cell %d (have %d, want %d)",
				core.ErrNonDeterministic, g.seed, g.count, i, g.table[i], v)
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (g *Generator) String() string {
	return fmt.Sprintf("rng.Generator{seed: %d, count: %d}", g.seed, g.count)
}
