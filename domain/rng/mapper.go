package rng

import (
	"math"

	"replayrng/domain/core"
)

// floatEpsilon is the smallest positive float32; bounds closer than this are
// treated as equal.
const floatEpsilon = math.SmallestNonzeroFloat32

// MapRange draws one value from table and maps it into [min, max), or
// [min, max] when maxInclusive is set.
//
// It fails with core.ErrInvalidRange when min > max, or when min == max and
// the upper bound is exclusive, and with core.ErrInvalidState when table is
// not a full lag table. A failed call leaves table untouched. When
// min == max the draw is still taken so that every successful call advances
// the table by exactly one step.
//
// The mapping is (max-min)*raw/MaxValue + min evaluated exactly in 64-bit
// integers and truncated toward zero, so the result is identical on every
// platform. Truncation means a range with max <= 0 can return max itself.
func MapRange(min, max int32, table []int32, maxInclusive bool) (int32, error) {
	if min > max || (min == max && !maxInclusive) {
		return 0, core.NewRangeError(min, max, maxInclusive)
	}
	if len(table) != StateLength {
		return 0, core.NewStateError(StateLength, len(table))
	}

	raw := Step(table)
	if min == max {
		return min, nil
	}
	if maxInclusive && raw == MaxValue {
		raw--
	}

	span := int64(max) - int64(min)
	q := span * int64(raw)
	v := q/MaxValue + int64(min)
	if v < 0 && q%MaxValue != 0 {
		v++
	}
	return int32(v), nil
}

// MapRangeFloat is the floating point counterpart of MapRange. Bounds must be
// finite. The result is computed in float64 and rounded to float32; it is
// not guaranteed to be bit-identical across platforms.
func MapRangeFloat(min, max float32, table []int32, maxInclusive bool) (float32, error) {
	if !isFinite(min) || !isFinite(max) || min > max {
		return 0, core.NewRangeError(min, max, maxInclusive)
	}
	degenerate := math.Abs(float64(min)-float64(max)) < floatEpsilon
	if degenerate && !maxInclusive {
		return 0, core.NewRangeError(min, max, maxInclusive)
	}
	if len(table) != StateLength {
		return 0, core.NewStateError(StateLength, len(table))
	}

	raw := Step(table)
	if degenerate {
		return min, nil
	}
	if maxInclusive && raw == MaxValue {
		raw--
	}

	span := float64(max) - float64(min)
	return float32(span*float64(raw)/MaxValue + float64(min)), nil
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
