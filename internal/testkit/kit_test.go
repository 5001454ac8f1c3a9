package testkit

import (
	"context"
	"testing"
	"time"

	"replayrng/domain/core"
	"replayrng/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_MatchesFixture(t *testing.T) {
	assert.Equal(t, FixtureSequence, Sequence(FixtureSeed, len(FixtureSequence)))
}

func TestInMemorySnapshotRepository_Contract(t *testing.T) {
	ctx := context.Background()
	kit := NewTestKit()
	repo := kit.SnapshotRepository()

	older := ports.NewSnapshotRecord("older", kit.GeneratorAt(FixtureSeed, 3).Snapshot())
	older.CreatedAt = core.NewTimestamp(time.Now().Add(-time.Hour))
	newer := ports.NewSnapshotRecord("newer", kit.GeneratorAt(FixtureSeed, 9).Snapshot())
	otherSeed := ports.NewSnapshotRecord("other", kit.GeneratorAt(7, 1).Snapshot())

	for _, r := range []*ports.SnapshotRecord{older, newer, otherSeed} {
		require.NoError(t, repo.Save(ctx, r))
	}
	assert.Equal(t, 3, repo.Len())

	got, err := repo.Get(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.Table, got.Table)
	assert.Equal(t, 9, got.Count)

	// Returned records are copies
	got.Table[1] = -1
	again, err := repo.Get(ctx, newer.ID)
	require.NoError(t, err)
	assert.NotEqual(t, int32(-1), again.Table[1])

	list, err := repo.ListBySeed(ctx, FixtureSeed, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Label)

	limited, err := repo.ListBySeed(ctx, FixtureSeed, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.Delete(ctx, older.ID))
	_, err = repo.Get(ctx, older.ID)
	assert.True(t, core.IsNotFoundError(err))
	assert.True(t, core.IsNotFoundError(repo.Delete(ctx, older.ID)))
}

func TestSnapshotRecord_RoundTrip(t *testing.T) {
	kit := NewTestKit()
	g := kit.GeneratorAt(FixtureSeed, 2)
	record := ports.NewSnapshotRecord("", g.Snapshot())

	snap, err := record.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, g.Fingerprint(), snap.Fingerprint())

	record.Table[4]++
	_, err = record.Snapshot()
	assert.ErrorIs(t, err, core.ErrHashMismatch)
}
