package stream

import (
	"context"
	"errors"
	"testing"

	"replayrng/domain/core"
	"replayrng/domain/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSeed_Pinned(t *testing.T) {
	assert.Equal(t, int32(-162854593), DeriveSeed(12345, "run-1", "shuffle", "deck"))
	assert.Equal(t, int32(177637), DeriveSeed(-1, "a"))
	assert.Equal(t, int32(12345), DeriveSeed(12345))
}

func TestDeriveSeed_OrderSensitive(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{"swapped parts", []string{"a", "b"}, []string{"b", "a"}},
		{"shifted empty part", []string{"a", "", "b"}, []string{"a", "b", ""}},
		{"empty parts count", []string{"", "", ""}, []string{}},
		{"run and stage swapped", []string{"run-1", "shuffle", "deck"}, []string{"shuffle", "run-1", "deck"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEqual(t, DeriveSeed(12345, tc.a...), DeriveSeed(12345, tc.b...))
		})
	}
}

func TestStream_SwappedRunAndStage(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	ab, err := adapter.Stream(ctx, "a", "b", "key", 7)
	require.NoError(t, err)
	ba, err := adapter.Stream(ctx, "b", "a", "key", 7)
	require.NoError(t, err)
	assert.NotEqual(t, ab.Seed(), ba.Seed())
}

func TestStream_Deterministic(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	a, err := adapter.Stream(ctx, "run-1", "shuffle", "deck", 12345)
	require.NoError(t, err)
	b, err := adapter.Stream(ctx, "run-1", "shuffle", "deck", 12345)
	require.NoError(t, err)
	other, err := adapter.Stream(ctx, "run-1", "shuffle", "hand", 12345)
	require.NoError(t, err)

	assert.Equal(t, a.Seed(), b.Seed())
	assert.NotEqual(t, a.Seed(), other.Seed())
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next(), "draw %d", i)
	}
}

func TestStream_IndependentInstances(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	a, err := adapter.SeededStream(ctx, "physics", 7)
	require.NoError(t, err)
	b, err := adapter.SeededStream(ctx, "physics", 7)
	require.NoError(t, err)

	a.Next()
	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 0, b.Count(), "streams with the same seed must not share state")
}

func TestValidateSeed(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	g := rng.New(42)
	expected := []int32{g.Next(), g.Next(), g.Next()}
	require.NoError(t, adapter.ValidateSeed(ctx, "fixture", 42, expected))

	expected[2]++
	err := adapter.ValidateSeed(ctx, "fixture", 42, expected)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSeedMismatch))
}

func TestStream_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdapter().Stream(ctx, "run", "stage", "key", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
