package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"replayrng/domain/core"
	"replayrng/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SnapshotRepositoryImpl implements ports.SnapshotRepository for PostgreSQL
type SnapshotRepositoryImpl struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository
func NewSnapshotRepository(db *sqlx.DB) ports.SnapshotRepository {
	return &SnapshotRepositoryImpl{db: db}
}

// snapshotRow mirrors the rng_snapshots table
type snapshotRow struct {
	ID          string        `db:"id"`
	Label       string        `db:"label"`
	Seed        int32         `db:"seed"`
	DrawCount   int64         `db:"draw_count"`
	LagTable    pq.Int64Array `db:"lag_table"`
	Fingerprint string        `db:"fingerprint"`
	CreatedAt   time.Time     `db:"created_at"`
}

func toRow(r *ports.SnapshotRecord) snapshotRow {
	table := make(pq.Int64Array, len(r.Table))
	for i, v := range r.Table {
		table[i] = int64(v)
	}
	return snapshotRow{
		ID:          r.ID.String(),
		Label:       r.Label,
		Seed:        r.Seed,
		DrawCount:   int64(r.Count),
		LagTable:    table,
		Fingerprint: r.Fingerprint.String(),
		CreatedAt:   r.CreatedAt.Time(),
	}
}

func (row snapshotRow) toRecord() *ports.SnapshotRecord {
	table := make([]int32, len(row.LagTable))
	for i, v := range row.LagTable {
		table[i] = int32(v)
	}
	return &ports.SnapshotRecord{
		ID:          core.SnapshotID(row.ID),
		Label:       row.Label,
		Seed:        row.Seed,
		Count:       int(row.DrawCount),
		Table:       table,
		Fingerprint: core.StateHash(row.Fingerprint),
		CreatedAt:   core.NewTimestamp(row.CreatedAt),
	}
}

const snapshotColumns = `id, label, seed, draw_count, lag_table, fingerprint, created_at`

// Save inserts or replaces a snapshot
func (r *SnapshotRepositoryImpl) Save(ctx context.Context, record *ports.SnapshotRecord) error {
	if record == nil || record.ID == "" {
		return core.NewValidationError("snapshot", "id cannot be empty")
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO rng_snapshots (`+snapshotColumns+`)
		VALUES (:id, :label, :seed, :draw_count, :lag_table, :fingerprint, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			seed = EXCLUDED.seed,
			draw_count = EXCLUDED.draw_count,
			lag_table = EXCLUDED.lag_table,
			fingerprint = EXCLUDED.fingerprint
	`, toRow(record))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", record.ID, err)
	}
	return nil
}

// Get retrieves a snapshot by ID
func (r *SnapshotRepositoryImpl) Get(ctx context.Context, id core.SnapshotID) (*ports.SnapshotRecord, error) {
	var row snapshotRow
	err := r.db.GetContext(ctx, &row, `SELECT `+snapshotColumns+` FROM rng_snapshots WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("snapshot", id.String())
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return row.toRecord(), nil
}

// ListBySeed returns snapshots for seed, newest first, optionally limited
func (r *SnapshotRepositoryImpl) ListBySeed(ctx context.Context, seed int32, limit int) ([]*ports.SnapshotRecord, error) {
	query := `SELECT ` + snapshotColumns + ` FROM rng_snapshots WHERE seed = $1 ORDER BY created_at DESC`
	args := []interface{}{seed}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	records := make([]*ports.SnapshotRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

// Delete removes a snapshot
func (r *SnapshotRepositoryImpl) Delete(ctx context.Context, id core.SnapshotID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rng_snapshots WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if affected == 0 {
		return core.NewNotFoundError("snapshot", id.String())
	}
	return nil
}
