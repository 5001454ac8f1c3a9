package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("%w: generator session", ErrNotFound)

	// Caller input errors
	ErrInvalidRange   = errors.New("invalid range")
	ErrInvalidState   = errors.New("invalid rng state")
	ErrInvalidRestore = errors.New("invalid restore count")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
	ErrHashMismatch     = errors.New("hash mismatch")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// NewRangeError reports bounds that cannot produce a value.
func NewRangeError(min, max interface{}, maxInclusive bool) error {
	return fmt.Errorf("%w: min %v must be less than max %v (max inclusive: %t)", ErrInvalidRange, min, max, maxInclusive)
}

// NewStateError reports a lag table of the wrong shape.
func NewStateError(want, got int) error {
	return fmt.Errorf("%w: lag table must have length %d but has %d", ErrInvalidState, want, got)
}

// NewStateCellError reports a lag table cell holding an impossible value.
func NewStateCellError(index int, value int32) error {
	return fmt.Errorf("%w: cell %d holds %d", ErrInvalidState, index, value)
}

func NewRestoreError(count int) error {
	return fmt.Errorf("%w: %d", ErrInvalidRestore, count)
}

func NewSeedMismatchError(name string, index int, want, got int32) error {
	return fmt.Errorf("%w: stream %q draw %d expected %d, got %d", ErrSeedMismatch, name, index, want, got)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsRangeError(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

func IsStateError(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidRestore)
}

func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) ||
		errors.Is(err, ErrSeedMismatch) ||
		errors.Is(err, ErrHashMismatch)
}
