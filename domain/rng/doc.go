// Package rng implements a deterministic, replayable pseudo-random number
// generator for lockstep simulations.
//
// The generator is a subtractive lagged-Fibonacci generator in the style
// described by Knuth: a 56 cell lag table whose first cell records the slot
// written last. Given the same seed and the same sequence of calls the
// generator yields the same values on every platform. Peek operations run
// against a private copy of the table, and Restore rebuilds the table from
// the seed and replays it to any draw count.
//
// Integer draws are computed with exact integer arithmetic and are the
// canonical determinism guarantee. Floating point draws are best effort: the
// result depends on float64 rounding of the host and is not promised to be
// bit-identical everywhere.
//
// A Generator is not safe for concurrent use. Serialize all calls on one
// instance, or give each goroutine its own generator.
package rng
