package ports

import (
	"testing"

	"replayrng/domain/core"
	"replayrng/domain/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRecord_MismatchNamesRecord(t *testing.T) {
	g := rng.New(12345)
	g.Next()
	record := NewSnapshotRecord("after one", g.Snapshot())

	record.Table[7]++
	_, err := record.Snapshot()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrHashMismatch)
	assert.Contains(t, err.Error(), record.ID.String())
	assert.Contains(t, err.Error(), "seed 12345, count 1")
}

func TestSnapshotRecord_EmptyFingerprintSkipsCheck(t *testing.T) {
	record := NewSnapshotRecord("", rng.New(3).Snapshot())
	record.Fingerprint = ""

	snap, err := record.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int32(3), snap.Seed())
}
