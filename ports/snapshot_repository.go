package ports

import (
	"context"
	"fmt"

	"replayrng/domain/core"
	"replayrng/domain/rng"
)

// SnapshotRecord is a persisted generator state. Seed, count and table are
// stored verbatim so a generator can resume without replaying.
type SnapshotRecord struct {
	ID          core.SnapshotID `json:"id"`
	Label       string          `json:"label"`
	Seed        int32           `json:"seed"`
	Count       int             `json:"count"`
	Table       []int32         `json:"table"`
	Fingerprint core.StateHash  `json:"fingerprint"`
	CreatedAt   core.Timestamp  `json:"created_at"`
}

// NewSnapshotRecord captures a snapshot under a fresh ID.
func NewSnapshotRecord(label string, snap rng.Snapshot) *SnapshotRecord {
	return &SnapshotRecord{
		ID:          core.NewSnapshotID(),
		Label:       label,
		Seed:        snap.Seed(),
		Count:       snap.Count(),
		Table:       snap.Table(),
		Fingerprint: snap.Fingerprint(),
		CreatedAt:   core.Now(),
	}
}

// Snapshot validates the record and converts it back into a Snapshot. A
// record whose fingerprint does not match its contents is rejected.
func (r *SnapshotRecord) Snapshot() (rng.Snapshot, error) {
	snap, err := rng.NewSnapshot(r.Seed, r.Count, r.Table)
	if err != nil {
		return rng.Snapshot{}, err
	}
	if !r.Fingerprint.IsEmpty() && snap.Fingerprint() != r.Fingerprint {
		return rng.Snapshot{}, fmt.Errorf("%w: snapshot %s (seed %d, count %d)", core.ErrHashMismatch, r.ID, r.Seed, r.Count)
	}
	return snap, nil
}

// SnapshotRepository persists generator snapshots
type SnapshotRepository interface {
	Save(ctx context.Context, record *SnapshotRecord) error
	Get(ctx context.Context, id core.SnapshotID) (*SnapshotRecord, error)
	ListBySeed(ctx context.Context, seed int32, limit int) ([]*SnapshotRecord, error)
	Delete(ctx context.Context, id core.SnapshotID) error
}
