package rng

import (
	"math"

	"replayrng/domain/core"
)

// GenerateState builds a fresh lag table for seed.
//
// All arithmetic is 32-bit with two's complement wrap-around, which the
// construction relies on for seeds whose magnitude exceeds basicSeed.
func GenerateState(seed int32) []int32 {
	table := make([]int32, StateLength)
	fillState(table, seed)
	return table
}

func fillState(table []int32, seed int32) {
	magnitude := int32(MaxValue)
	if seed != math.MinInt32 {
		magnitude = seed
		if magnitude < 0 {
			magnitude = -magnitude
		}
	}

	value := basicSeed - magnitude
	table[StateLength-1] = value
	table[pointerIndex] = 0

	j := int32(1)
	for i := 1; i < StateLength-1; i++ {
		index := (helperInc * i) % (StateLength - 1)
		table[index] = j

		j = value - j
		if j < 0 {
			j += MaxValue
		}
		value = table[index]
	}

	for k := 0; k < warmupPasses; k++ {
		for i := 1; i < StateLength; i++ {
			table[i] -= table[1+(i+warmupOffset)%(StateLength-1)]
			if table[i] < 0 {
				table[i] += MaxValue
			}
		}
	}
}

// Step advances table by one position and returns the next raw value in
// [0, MaxValue). It always mutates table; pass a CopyState clone to look
// ahead without consuming. table must hold StateLength cells.
func Step(table []int32) int32 {
	index1 := table[pointerIndex] + 1
	if index1 >= StateLength {
		index1 = 1
	}
	index2 := index1 + tapDistance
	if index2 >= StateLength {
		index2 = 1
	}

	result := table[index1] - table[index2]
	if result < 0 {
		result += MaxValue
	}

	table[index1] = result
	table[pointerIndex] = index1
	return result
}

// RestoreState rebuilds the lag table for seed as it stood after count draws.
// The cost is O(count).
func RestoreState(seed int32, count int) ([]int32, error) {
	table := make([]int32, StateLength)
	if err := replay(table, seed, count); err != nil {
		return nil, err
	}
	return table, nil
}

func replay(table []int32, seed int32, count int) error {
	if count < 0 {
		return core.NewRestoreError(count)
	}
	fillState(table, seed)
	for i := 0; i < count; i++ {
		Step(table)
	}
	return nil
}
