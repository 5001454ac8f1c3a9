package rng

import (
	"errors"
	"math"
	"testing"

	"replayrng/domain/core"
)

const testSeed = 12345

// Pinned regression values for seed 12345.
var seed12345Sequence = []int32{2101738651, 1384996600, 183377504, 1218633954, 853764120}

func TestNext_PinnedSequence(t *testing.T) {
	g := New(testSeed)
	for i, want := range seed12345Sequence {
		if got := g.Next(); got != want {
			t.Fatalf("draw %d: expected %d, got %d", i, want, got)
		}
	}
	if g.Count() != len(seed12345Sequence) {
		t.Errorf("Expected count %d, got %d", len(seed12345Sequence), g.Count())
	}
}

func TestNext_SameSeedDeterministic(t *testing.T) {
	seeds := []int32{0, 1, -1, 42, testSeed, math.MaxInt32, math.MinInt32, 161803398, -161803399}

	for _, seed := range seeds {
		a, b := New(seed), New(seed)
		for i := 0; i < 500; i++ {
			va, vb := a.Next(), b.Next()
			if va != vb {
				t.Fatalf("seed %d draw %d: sequences diverge (%d vs %d)", seed, i, va, vb)
			}
			if va < 0 || va >= MaxValue {
				t.Fatalf("seed %d draw %d: value %d out of [0, MaxValue)", seed, i, va)
			}
		}
	}
}

func TestNew_MinInt32SeedTreatedAsMaxMagnitude(t *testing.T) {
	// |MinInt32| is taken as MaxInt32, so MinInt32 and MaxInt32 share a table
	// while 0 does not.
	minGen := New(math.MinInt32)
	maxGen := New(math.MaxInt32)
	if minGen.Next() != maxGen.Next() {
		t.Error("Expected MinInt32 and MaxInt32 seeds to produce the same first draw")
	}

	if got := New(math.MinInt32).Next(); got != 282918985 {
		t.Errorf("Expected pinned first draw 282918985 for MinInt32, got %d", got)
	}
}

func TestNew_NegativeSeedMirrorsPositive(t *testing.T) {
	pos, neg := New(testSeed), New(-testSeed)
	for i := 0; i < 10; i++ {
		if pos.Next() != neg.Next() {
			t.Fatalf("draw %d: seeds %d and %d should share a sequence", i, testSeed, -testSeed)
		}
	}
	if pos.Seed() == neg.Seed() {
		t.Error("Seeds must still be recorded as given")
	}
}

func TestPeek_DoesNotAdvanceState(t *testing.T) {
	g := New(testSeed)
	g.Next()
	before := g.Fingerprint()

	peeked := g.Peek()
	peeked2 := g.Peek()
	if g.Count() != 1 {
		t.Errorf("Peek changed the count: %d", g.Count())
	}
	if g.Fingerprint() != before {
		t.Error("Peek mutated the live table")
	}

	next := g.Next()
	if peeked != peeked2 {
		t.Errorf("Consecutive peeks differ: %d vs %d", peeked, peeked2)
	}
	if peeked != next {
		t.Errorf("Peek %d does not match following Next %d", peeked, next)
	}
	if g.Count() != 2 {
		t.Errorf("Expected count 2, got %d", g.Count())
	}
}

func TestPeekRange_MatchesRange(t *testing.T) {
	g := New(testSeed)
	tests := []struct {
		min, max  int32
		inclusive bool
	}{
		{0, 100, false},
		{-10, 10, false},
		{5, 6, true},
		{math.MinInt32, math.MaxInt32, false},
		{7, 7, true},
	}

	for _, tc := range tests {
		peeked, err := g.PeekRange(tc.min, tc.max, tc.inclusive)
		if err != nil {
			t.Fatalf("PeekRange(%d, %d): %v", tc.min, tc.max, err)
		}
		got, err := g.Range(tc.min, tc.max, tc.inclusive)
		if err != nil {
			t.Fatalf("Range(%d, %d): %v", tc.min, tc.max, err)
		}
		if peeked != got {
			t.Errorf("Range(%d, %d): peek %d != draw %d", tc.min, tc.max, peeked, got)
		}
	}
}

func TestPeekFloat_MatchesNextFloat(t *testing.T) {
	g := New(testSeed)
	for i := 0; i < 20; i++ {
		peeked := g.PeekFloat()
		if got := g.NextFloat(); got != peeked {
			t.Fatalf("draw %d: PeekFloat %v != NextFloat %v", i, peeked, got)
		}
	}
	if g.Count() != 20 {
		t.Errorf("Expected count 20, got %d", g.Count())
	}
}

func TestRange_PinnedValues(t *testing.T) {
	tests := []struct {
		name     string
		min, max int32
		expected []int32
	}{
		{"zero to hundred", 0, 100, []int32{97, 64, 8, 56, 39}},
		{"negative lower bound", -10, 10, []int32{9, 2, -8, 1, -2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New(testSeed)
			for i, want := range tc.expected {
				got, err := g.Range(tc.min, tc.max, false)
				if err != nil {
					t.Fatalf("draw %d: %v", i, err)
				}
				if got != want {
					t.Errorf("draw %d: expected %d, got %d", i, want, got)
				}
			}
		})
	}
}

func TestRange_TruncatesTowardZero(t *testing.T) {
	tests := []struct {
		name     string
		min, max int32
	}{
		{"straddles zero", -10, 10},
		{"mostly negative", -1000, 7},
		{"small symmetric", -3, 3},
		{"wide negative", -1 << 20, 5},
		{"all negative", -50, -20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New(testSeed)
			for i := 0; i < 2000; i++ {
				raw := g.Peek()
				exact := float64(int64(tc.max)-int64(tc.min))*float64(raw)/MaxValue + float64(tc.min)
				want := int32(math.Trunc(exact))

				got, err := g.Range(tc.min, tc.max, false)
				if err != nil {
					t.Fatalf("draw %d: %v", i, err)
				}
				if got != want {
					t.Fatalf("draw %d raw %d: expected %d, got %d", i, raw, want, got)
				}
			}
		})
	}
}

func TestRange_StaysWithinBounds(t *testing.T) {
	g := New(7)
	for i := 0; i < 10000; i++ {
		v, err := g.Range(-3, 3, false)
		if err != nil {
			t.Fatal(err)
		}
		if v < -3 || v >= 3 {
			t.Fatalf("draw %d: %d outside [-3, 3)", i, v)
		}

		f, err := g.RangeFloat(-1.5, 2.5, true)
		if err != nil {
			t.Fatal(err)
		}
		if f < -1.5 || f > 2.5 {
			t.Fatalf("draw %d: %v outside [-1.5, 2.5]", i, f)
		}
	}
}

func TestRange_MinEqualsMaxReturnsMin(t *testing.T) {
	g := New(testSeed)
	for i := 0; i < 5; i++ {
		got, err := g.Range(10, 10, true)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != 10 {
			t.Errorf("Expected 10, got %d", got)
		}
	}

	f, err := g.RangeFloat(2.5, 2.5, true)
	if err != nil || f != 2.5 {
		t.Errorf("Expected 2.5, got %v (err %v)", f, err)
	}

	// The degenerate draw still steps the table, keeping count and table in
	// agreement.
	if g.Count() != 6 {
		t.Errorf("Expected count 6, got %d", g.Count())
	}
	if err := g.Verify(); err != nil {
		t.Errorf("State inconsistent after degenerate draws: %v", err)
	}
}

func TestRange_InvalidBounds(t *testing.T) {
	tests := []struct {
		name      string
		min, max  int32
		inclusive bool
	}{
		{"min greater than max", 10, 5, false},
		{"min greater than max inclusive", 10, 5, true},
		{"empty exclusive range", 10, 10, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New(testSeed)
			before := g.Fingerprint()

			_, err := g.Range(tc.min, tc.max, tc.inclusive)
			if !errors.Is(err, core.ErrInvalidRange) {
				t.Fatalf("Expected ErrInvalidRange, got %v", err)
			}
			if _, err := g.PeekRange(tc.min, tc.max, tc.inclusive); !errors.Is(err, core.ErrInvalidRange) {
				t.Errorf("Expected ErrInvalidRange from peek, got %v", err)
			}
			if g.Count() != 0 || g.Fingerprint() != before {
				t.Error("Failed call mutated the generator")
			}
		})
	}
}

func TestRangeFloat_InvalidBounds(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name      string
		min, max  float32
		inclusive bool
	}{
		{"min greater than max", 1, 0, true},
		{"empty exclusive range", 1, 1, false},
		{"nan bound", nan, 1, true},
		{"infinite bound", 0, inf, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New(testSeed)
			if _, err := g.RangeFloat(tc.min, tc.max, tc.inclusive); !errors.Is(err, core.ErrInvalidRange) {
				t.Errorf("Expected ErrInvalidRange, got %v", err)
			}
			if g.Count() != 0 {
				t.Errorf("Failed call changed count to %d", g.Count())
			}
		})
	}
}

func TestRestore_ToPastCountReproducesSequence(t *testing.T) {
	g := New(testSeed)
	g.Next()
	g.Next()
	count := g.Count()
	nextValue := g.Peek()

	g.Next()
	g.Next()

	if err := g.Restore(count); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if g.Count() != count {
		t.Errorf("Expected count %d, got %d", count, g.Count())
	}
	if got := g.Next(); got != nextValue {
		t.Errorf("Expected %d after restore, got %d", nextValue, got)
	}
}

func TestRestore_ToFutureCountMatchesDrawing(t *testing.T) {
	drawn := New(testSeed)
	for i := 0; i < 5; i++ {
		drawn.Next()
	}

	restored := New(testSeed)
	if err := restored.Restore(5); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Count() != 5 {
		t.Errorf("Expected count 5, got %d", restored.Count())
	}
	if restored.Fingerprint() != drawn.Fingerprint() {
		t.Error("Fast-forwarded state differs from drawn state")
	}
}

func TestRestore_ForwardAndBackwardAgree(t *testing.T) {
	g := New(testSeed)
	first := g.Next()
	if first != seed12345Sequence[0] {
		t.Fatalf("Expected first draw %d, got %d", seed12345Sequence[0], first)
	}
	for i := 0; i < 1000; i++ {
		g.Next()
	}

	if err := g.Restore(1); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := g.Next(); got != seed12345Sequence[1] {
		t.Errorf("Expected successor %d, got %d", seed12345Sequence[1], got)
	}
}

func TestRestore_NegativeCountRejected(t *testing.T) {
	g := New(testSeed)
	g.Next()
	before := g.Fingerprint()

	if err := g.Restore(-1); !errors.Is(err, core.ErrInvalidRestore) {
		t.Fatalf("Expected ErrInvalidRestore, got %v", err)
	}
	if g.Count() != 1 || g.Fingerprint() != before {
		t.Error("Rejected restore mutated the generator")
	}
}

func TestVerify_CountAndTableStayConsistent(t *testing.T) {
	g := New(99)
	for i := 0; i < 300; i++ {
		switch i % 4 {
		case 0:
			g.Next()
		case 1:
			g.NextFloat()
		case 2:
			if _, err := g.Range(1, 6, true); err != nil {
				t.Fatal(err)
			}
		case 3:
			g.Peek()
		}
	}
	if g.Count() != 225 {
		t.Errorf("Expected count 225, got %d", g.Count())
	}
	if err := g.Verify(); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestVerify_DetectsTamperedTable(t *testing.T) {
	g := New(testSeed)
	g.Next()
	g.table[3]++

	if err := g.Verify(); !errors.Is(err, core.ErrNonDeterministic) {
		t.Errorf("Expected ErrNonDeterministic, got %v", err)
	}
}
