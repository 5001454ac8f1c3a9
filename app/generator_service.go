package app

import (
	"context"
	"sync"

	"replayrng/domain/core"
	"replayrng/domain/rng"
	"replayrng/internal"
	apperrors "replayrng/internal/errors"
	"replayrng/ports"
)

// ServiceLimits bounds the work a single request may ask for
type ServiceLimits struct {
	MaxRestoreDistance int
	MaxBatch           int
}

// DefaultLimits mirror the configuration defaults
var DefaultLimits = ServiceLimits{MaxRestoreDistance: 10_000_000, MaxBatch: 10_000}

// SessionState is a read-only view of a generator session
type SessionState struct {
	ID          core.SessionID `json:"id"`
	Seed        int32          `json:"seed"`
	Count       int            `json:"count"`
	Fingerprint core.StateHash `json:"fingerprint"`
}

// session owns one generator. All access goes through mu, since a
// generator must never be mutated from two goroutines at once.
type session struct {
	mu  sync.Mutex
	id  core.SessionID
	gen *rng.Generator
}

func (s *session) state() SessionState {
	return SessionState{ID: s.id, Seed: s.gen.Seed(), Count: s.gen.Count(), Fingerprint: s.gen.Fingerprint()}
}

// GeneratorService manages generator sessions and their persisted snapshots
type GeneratorService struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*session

	repo   ports.SnapshotRepository
	limits ServiceLimits
	logger *internal.Logger
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(repo ports.SnapshotRepository, limits ServiceLimits, logger *internal.Logger) *GeneratorService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &GeneratorService{
		sessions: make(map[core.SessionID]*session),
		repo:     repo,
		limits:   limits,
		logger:   logger.With("generator"),
	}
}

// Create starts a new session for seed
func (s *GeneratorService) Create(ctx context.Context, seed int32) (SessionState, error) {
	return s.register(rng.New(seed)), nil
}

func (s *GeneratorService) register(gen *rng.Generator) SessionState {
	sess := &session{id: core.NewSessionID(), gen: gen}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("Created session %s (seed %d, count %d)", sess.id, gen.Seed(), gen.Count())
	return sess.state()
}

// Get returns the state of a session
func (s *GeneratorService) Get(ctx context.Context, id core.SessionID) (SessionState, error) {
	var state SessionState
	err := s.with(id, func(sess *session) error {
		state = sess.state()
		return nil
	})
	return state, err
}

// Close discards a session
func (s *GeneratorService) Close(ctx context.Context, id core.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.NotFound("session", id.String())
	}
	delete(s.sessions, id)
	s.logger.Debug("Closed session %s", id)
	return nil
}

// Next draws n integer values
func (s *GeneratorService) Next(ctx context.Context, id core.SessionID, n int) ([]int32, SessionState, error) {
	if err := s.checkBatch(n); err != nil {
		return nil, SessionState{}, err
	}

	var values []int32
	var state SessionState
	err := s.with(id, func(sess *session) error {
		values = make([]int32, n)
		for i := range values {
			values[i] = sess.gen.Next()
		}
		state = sess.state()
		return nil
	})
	return values, state, err
}

// NextFloat draws n floating point values
func (s *GeneratorService) NextFloat(ctx context.Context, id core.SessionID, n int) ([]float32, SessionState, error) {
	if err := s.checkBatch(n); err != nil {
		return nil, SessionState{}, err
	}

	var values []float32
	var state SessionState
	err := s.with(id, func(sess *session) error {
		values = make([]float32, n)
		for i := range values {
			values[i] = sess.gen.NextFloat()
		}
		state = sess.state()
		return nil
	})
	return values, state, err
}

// Range draws one integer value in the given bounds
func (s *GeneratorService) Range(ctx context.Context, id core.SessionID, min, max int32, maxInclusive bool) (int32, SessionState, error) {
	var value int32
	var state SessionState
	err := s.with(id, func(sess *session) error {
		v, err := sess.gen.Range(min, max, maxInclusive)
		if err != nil {
			return err
		}
		value = v
		state = sess.state()
		return nil
	})
	return value, state, err
}

// RangeFloat draws one floating point value in the given bounds
func (s *GeneratorService) RangeFloat(ctx context.Context, id core.SessionID, min, max float32, maxInclusive bool) (float32, SessionState, error) {
	var value float32
	var state SessionState
	err := s.with(id, func(sess *session) error {
		v, err := sess.gen.RangeFloat(min, max, maxInclusive)
		if err != nil {
			return err
		}
		value = v
		state = sess.state()
		return nil
	})
	return value, state, err
}

// Peek returns the next integer value without consuming it
func (s *GeneratorService) Peek(ctx context.Context, id core.SessionID) (int32, error) {
	var value int32
	err := s.with(id, func(sess *session) error {
		value = sess.gen.Peek()
		return nil
	})
	return value, err
}

// PeekFloat returns the next floating point value without consuming it
func (s *GeneratorService) PeekFloat(ctx context.Context, id core.SessionID) (float32, error) {
	var value float32
	err := s.with(id, func(sess *session) error {
		value = sess.gen.PeekFloat()
		return nil
	})
	return value, err
}

// PeekRange returns what Range would return next without consuming it
func (s *GeneratorService) PeekRange(ctx context.Context, id core.SessionID, min, max int32, maxInclusive bool) (int32, error) {
	var value int32
	err := s.with(id, func(sess *session) error {
		v, err := sess.gen.PeekRange(min, max, maxInclusive)
		value = v
		return err
	})
	return value, err
}

// PeekRangeFloat returns what RangeFloat would return next without consuming it
func (s *GeneratorService) PeekRangeFloat(ctx context.Context, id core.SessionID, min, max float32, maxInclusive bool) (float32, error) {
	var value float32
	err := s.with(id, func(sess *session) error {
		v, err := sess.gen.PeekRangeFloat(min, max, maxInclusive)
		value = v
		return err
	})
	return value, err
}

// Restore moves a session to count. Restores are replayed from the seed, so
// the cost is bounded by MaxRestoreDistance rather than by the distance from
// the current position.
func (s *GeneratorService) Restore(ctx context.Context, id core.SessionID, count int) (SessionState, error) {
	if count > s.limits.MaxRestoreDistance {
		return SessionState{}, apperrors.RestoreTooFar(count, s.limits.MaxRestoreDistance)
	}

	var state SessionState
	err := s.with(id, func(sess *session) error {
		from := sess.gen.Count()
		if err := sess.gen.Restore(count); err != nil {
			return err
		}
		s.logger.Debug("Restored session %s from %d to %d", id, from, count)
		state = sess.state()
		return nil
	})
	return state, err
}

// SaveSnapshot persists the current state of a session
func (s *GeneratorService) SaveSnapshot(ctx context.Context, id core.SessionID, label string) (*ports.SnapshotRecord, error) {
	var snap rng.Snapshot
	if err := s.with(id, func(sess *session) error {
		snap = sess.gen.Snapshot()
		return nil
	}); err != nil {
		return nil, err
	}

	record := ports.NewSnapshotRecord(label, snap)
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to save snapshot for session %s: %v", id, err)
		return nil, apperrors.DatabaseError("failed to save snapshot", err)
	}

	s.logger.Info("Saved snapshot %s for session %s at count %d", record.ID, id, record.Count)
	return record, nil
}

// LoadSnapshot starts a new session from a persisted snapshot
func (s *GeneratorService) LoadSnapshot(ctx context.Context, snapshotID core.SnapshotID) (SessionState, error) {
	record, err := s.repo.Get(ctx, snapshotID)
	if err != nil {
		if core.IsNotFoundError(err) {
			return SessionState{}, apperrors.FromDomain(err)
		}
		return SessionState{}, apperrors.DatabaseError("failed to load snapshot", err)
	}

	snap, err := record.Snapshot()
	if err != nil {
		s.logger.Warn("Snapshot %s failed validation: %v", snapshotID, err)
		return SessionState{}, apperrors.FromDomain(err)
	}
	return s.register(rng.FromSnapshot(snap)), nil
}

// ListSnapshots returns persisted snapshots for seed
func (s *GeneratorService) ListSnapshots(ctx context.Context, seed int32, limit int) ([]*ports.SnapshotRecord, error) {
	records, err := s.repo.ListBySeed(ctx, seed, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list snapshots", err)
	}
	return records, nil
}

// SessionCount returns the number of open sessions
func (s *GeneratorService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *GeneratorService) checkBatch(n int) error {
	if n <= 0 || n > s.limits.MaxBatch {
		return apperrors.InvalidInput("batch size must be between 1 and the configured maximum")
	}
	return nil
}

// with runs fn while holding the session's lock. Domain errors are returned
// as coded AppErrors.
func (s *GeneratorService) with(id core.SessionID, fn func(*session) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return apperrors.NotFound("session", id.String())
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return apperrors.FromDomain(fn(sess))
}
