// Package service wires the state store, persistence and catalog together
// and implements the use cases behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/catalog"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/repository"
	"github.com/edytawrobel/team-coords-aiengineer/internal/config"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/dedupe"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/state"
	"github.com/edytawrobel/team-coords-aiengineer/internal/durability"
	"github.com/edytawrobel/team-coords-aiengineer/internal/store"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/metrics"
)

// Service implements the API dependencies for team coordination.
type Service struct {
	mu sync.RWMutex

	// Core components
	repo    repository.Repository
	policy  durability.Policy
	store   *store.Store
	deduper dedupe.Deduper
	catalog catalog.Source

	// Toggles whose idempotency key is recorded but not yet answered.
	inflightMu sync.Mutex
	inflight   map[string]*pendingToggle

	// Configuration
	queueSize        int
	persistQueueSize int
	dedupeSize       int
	durability       string
	dbPath           string
	snapshotID       string
	shutdownTimeout  time.Duration
	eventStart       time.Time

	now   func() time.Time
	newID func() string

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:        1024,
		persistQueueSize: 64,
		dedupeSize:       10_000,
		durability:       config.DurabilityWriteBehind,
		dbPath:           "teamcoord.db",
		snapshotID:       repository.DefaultSnapshotID,
		shutdownTimeout:  10 * time.Second,
		eventStart:       time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC),
		now:              time.Now,
		newID:            uuid.NewString,
		inflight:         make(map[string]*pendingToggle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens storage, starts the store, restores the last snapshot and
// refreshes the session catalog. Hydration and catalog failures are logged
// and leave the service running on whatever state it has.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting team coordination service...")

	if s.repo == nil {
		repo, err := s.openRepository(ctx)
		if err != nil {
			return err
		}
		s.repo = repo
	}

	policy, err := durability.New(s.durability, s.repo,
		durability.WithSnapshotID(s.snapshotID),
		durability.WithQueueSize(s.persistQueueSize),
		durability.WithShutdownTimeout(s.shutdownTimeout),
	)
	if err != nil {
		_ = s.repo.Close()
		s.repo = nil
		return fmt.Errorf("start service: %w", err)
	}
	s.policy = policy

	initial := s.loadSnapshot(ctx)
	s.store = store.New(s.policy,
		store.WithQueueSize(s.queueSize),
		store.WithInitial(initial),
	)
	s.store.Start(ctx)
	metrics.UpdateSnapshotShape(store.Shape(s.store.Snapshot()))

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.started = true
	s.startedAt = s.now()

	if s.catalog != nil {
		if _, err := s.refreshCatalog(ctx); err != nil {
			s.logger.Warn(ctx, "catalog refresh failed; keeping previous sessions", logger.Error(err))
		}
	}

	s.logger.Info(ctx, "team coordination service started",
		logger.String("durability", s.policy.Name()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("team", len(s.store.Snapshot().Team)),
		logger.Int("sessions", len(s.store.Snapshot().Sessions)),
	)
	return nil
}

func (s *Service) openRepository(ctx context.Context) (repository.Repository, error) {
	if s.durability == config.DurabilityNone {
		return repository.NewMemoryRepository(), nil
	}
	repo, err := repository.NewSQLiteRepository(ctx, s.dbPath, repository.WithLogger(s.logger.Named("repository")))
	if err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return repo, nil
}

// loadSnapshot restores the persisted snapshot through the same integrity
// pass every intent gets. Missing or unreadable state yields an empty one.
func (s *Service) loadSnapshot(ctx context.Context) model.Snapshot {
	empty := model.Snapshot{}.Normalize()
	snap, found, err := s.repo.LoadSnapshot(ctx, s.snapshotID)
	if err != nil {
		metrics.RecordErrorByComponent("service", "hydrate_failed")
		s.logger.Error(ctx, "failed to load persisted state; starting empty",
			logger.String("snapshotID", s.snapshotID), logger.Error(err))
		return empty
	}
	if !found {
		s.logger.Info(ctx, "no persisted state; starting empty", logger.String("snapshotID", s.snapshotID))
		return empty
	}
	restored, err := state.Apply(empty, state.Load{Snapshot: snap})
	if err != nil {
		return empty
	}
	return restored
}

// Stop drains the store, flushes pending saves and closes storage.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping team coordination service...")

	stopCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.store.Stop(stopCtx); err != nil {
		errs = append(errs, err)
	}
	if err := s.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close repository: %w", err))
	}
	s.repo = nil
	s.started = false

	s.logger.Info(ctx, "team coordination service stopped")
	return errors.Join(errs...)
}

// RefreshCatalog replaces the catalog sessions with a fresh fetch. On
// failure sessions are left untouched.
func (s *Service) RefreshCatalog(ctx context.Context) (int, error) {
	if _, err := s.ready(); err != nil {
		return 0, err
	}
	return s.refreshCatalog(ctx)
}

func (s *Service) refreshCatalog(ctx context.Context) (int, error) {
	if s.catalog == nil {
		return 0, catalog.ErrNoSource
	}
	sessions, err := s.catalog.Fetch(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("catalog", "fetch_failed")
		return 0, fmt.Errorf("refresh catalog: %w", err)
	}
	snap, err := s.store.Dispatch(ctx, state.SetSessions{Catalog: sessions})
	if err != nil {
		return 0, fmt.Errorf("refresh catalog: %w", err)
	}
	loaded := len(snap.Sessions) - snap.CustomSessions()
	if skipped := len(sessions) - loaded; skipped > 0 {
		metrics.RecordCatalogSkipped(skipped)
		s.logger.Warn(ctx, "catalog sessions skipped; id taken by a custom session",
			logger.Int("skipped", skipped))
	}
	metrics.UpdateCatalogSessions(loaded)
	return loaded, nil
}

// Snapshot returns the latest published state.
func (s *Service) Snapshot() model.Snapshot {
	st, err := s.ready()
	if err != nil {
		return model.Snapshot{}.Normalize()
	}
	return st.Snapshot()
}

// SeenAndRecord reports whether key was already used and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordRequestDuplicate()
	}
	return seen
}

// Unrecord forgets key so a failed request can be retried.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"durability": s.durability,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	snap := s.store.Snapshot()
	shape := store.Shape(snap)
	stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())
	stats["dedupeEntries"] = s.deduper.Size()
	stats["teamSize"] = shape.Team
	stats["catalogSessions"] = shape.CatalogSession
	stats["customSessions"] = shape.CustomSession
	stats["attendanceLinks"] = shape.Attendance
	stats["notes"] = shape.Notes
	stats["summaries"] = shape.Summaries
	metrics.UpdateSnapshotShape(shape)
	return stats
}

// withRepository runs fn while the service holds its repository open.
func (s *Service) withRepository(fn func(repository.Repository) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return fn(s.repo)
}

func (s *Service) ready() (*store.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) dispatch(ctx context.Context, intent state.Intent) (model.Snapshot, error) {
	st, err := s.ready()
	if err != nil {
		return model.Snapshot{}, err
	}
	return st.Dispatch(ctx, intent)
}
