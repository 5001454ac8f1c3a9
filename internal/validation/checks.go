package validation

import (
	"fmt"

	"replayrng/domain/rng"
)

func checkDeterminism(seed int32, draws int) string {
	a, b := rng.New(seed), rng.New(seed)
	for i := 0; i < draws; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			return fmt.Sprintf("draw %d: %d != %d", i, x, y)
		}
	}
	if a.Fingerprint() != b.Fingerprint() {
		return "fingerprints differ after identical draws"
	}
	return ""
}

func checkPeek(seed int32, draws int) string {
	gen := rng.New(seed)
	for i := 0; i < draws; i++ {
		before := gen.Count()
		first, second := gen.Peek(), gen.Peek()
		if first != second {
			return fmt.Sprintf("draw %d: repeated peeks returned %d and %d", i, first, second)
		}
		if gen.Count() != before {
			return fmt.Sprintf("draw %d: peek moved count from %d to %d", i, before, gen.Count())
		}

		// Alternate consuming calls so both mapping paths are covered
		if i%2 == 0 {
			if got := gen.Next(); got != first {
				return fmt.Sprintf("draw %d: peeked %d but drew %d", i, first, got)
			}
			continue
		}
		peeked, err := gen.PeekRange(-1000, 1000, true)
		if err != nil {
			return err.Error()
		}
		got, err := gen.Range(-1000, 1000, true)
		if err != nil {
			return err.Error()
		}
		if got != peeked {
			return fmt.Sprintf("draw %d: peeked range %d but drew %d", i, peeked, got)
		}
	}
	return ""
}

func checkRestore(seed int32, draws int) string {
	gen := rng.New(seed)
	values := make([]int32, draws)
	for i := range values {
		values[i] = gen.Next()
	}
	end := gen.Fingerprint()

	mid := draws / 2
	if err := gen.Restore(mid); err != nil {
		return err.Error()
	}
	for i := mid; i < draws; i++ {
		if got := gen.Next(); got != values[i] {
			return fmt.Sprintf("after restore to %d: draw %d was %d, want %d", mid, i, got, values[i])
		}
	}
	if gen.Fingerprint() != end {
		return "state after replaying differs from the recorded state"
	}

	fresh := rng.New(seed)
	if err := fresh.Restore(draws); err != nil {
		return err.Error()
	}
	if fresh.Fingerprint() != end {
		return fmt.Sprintf("forward restore to %d differs from drawing", draws)
	}
	return ""
}

func checkSnapshot(seed int32, draws int) string {
	gen := rng.New(seed)
	for i := 0; i < draws/2; i++ {
		gen.Next()
	}

	snap := gen.Snapshot()
	rebuilt, err := rng.NewSnapshot(snap.Seed(), snap.Count(), snap.Table())
	if err != nil {
		return err.Error()
	}
	resumed := rng.FromSnapshot(rebuilt)
	for i := draws / 2; i < draws; i++ {
		if a, b := gen.Next(), resumed.Next(); a != b {
			return fmt.Sprintf("draw %d: resumed generator returned %d, want %d", i, b, a)
		}
	}
	return ""
}

func checkReplay(seed int32, draws int) string {
	gen := rng.New(seed)
	for i := 0; i < draws; i++ {
		switch i % 4 {
		case 0:
			gen.Next()
		case 1:
			gen.NextFloat()
		case 2:
			if _, err := gen.Range(int32(i), int32(i)+10, false); err != nil {
				return err.Error()
			}
		case 3:
			gen.Peek()
		}
	}
	if err := gen.Verify(); err != nil {
		return err.Error()
	}
	return ""
}
