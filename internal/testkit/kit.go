package testkit

import (
	"context"
	"sort"
	"sync"

	"replayrng/adapters/stream"
	"replayrng/domain/core"
	"replayrng/domain/rng"
	"replayrng/ports"
)

// FixtureSeed is the seed used by pinned regression fixtures.
const FixtureSeed int32 = 12345

// FixtureSequence holds the first draws of FixtureSeed.
var FixtureSequence = []int32{2101738651, 1384996600, 183377504, 1218633954, 853764120}

// TestKit provides testing utilities and fixtures
type TestKit struct {
	snapshots *InMemorySnapshotRepository
}

// NewTestKit creates a new test kit instance
func NewTestKit() *TestKit {
	return &TestKit{snapshots: NewInMemorySnapshotRepository()}
}

// StreamAdapter returns a stream adapter
func (t *TestKit) StreamAdapter() ports.StreamPort {
	return stream.NewAdapter()
}

// SnapshotRepository returns the shared in-memory snapshot repository
func (t *TestKit) SnapshotRepository() *InMemorySnapshotRepository {
	return t.snapshots
}

// GeneratorAt returns a generator for seed that has taken count draws.
func (t *TestKit) GeneratorAt(seed int32, count int) *rng.Generator {
	g := rng.New(seed)
	for i := 0; i < count; i++ {
		g.Next()
	}
	return g
}

// Sequence returns the first n draws of seed.
func Sequence(seed int32, n int) []int32 {
	g := rng.New(seed)
	out := make([]int32, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// InMemorySnapshotRepository implements ports.SnapshotRepository with in-memory storage
type InMemorySnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[core.SnapshotID]*ports.SnapshotRecord
}

// NewInMemorySnapshotRepository creates an empty repository
func NewInMemorySnapshotRepository() *InMemorySnapshotRepository {
	return &InMemorySnapshotRepository{
		snapshots: make(map[core.SnapshotID]*ports.SnapshotRecord),
	}
}

func (s *InMemorySnapshotRepository) Save(ctx context.Context, record *ports.SnapshotRecord) error {
	if record == nil || record.ID == "" {
		return core.NewValidationError("snapshot", "id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[record.ID] = cloneRecord(record)
	return nil
}

func (s *InMemorySnapshotRepository) Get(ctx context.Context, id core.SnapshotID) (*ports.SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.snapshots[id]
	if !ok {
		return nil, core.NewNotFoundError("snapshot", id.String())
	}
	return cloneRecord(record), nil
}

func (s *InMemorySnapshotRepository) ListBySeed(ctx context.Context, seed int32, limit int) ([]*ports.SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*ports.SnapshotRecord
	for _, record := range s.snapshots {
		if record.Seed == seed {
			results = append(results, cloneRecord(record))
		}
	}

	// Newest first, matching the SQL adapter
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *InMemorySnapshotRepository) Delete(ctx context.Context, id core.SnapshotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return core.NewNotFoundError("snapshot", id.String())
	}
	delete(s.snapshots, id)
	return nil
}

// Len returns the number of stored snapshots
func (s *InMemorySnapshotRepository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

func cloneRecord(r *ports.SnapshotRecord) *ports.SnapshotRecord {
	c := *r
	c.Table = append([]int32(nil), r.Table...)
	return &c
}
