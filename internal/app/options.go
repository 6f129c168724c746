package service

import (
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/catalog"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/repository"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum number of intents waiting for the store.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithPersistQueueSize bounds the write-behind queue.
func WithPersistQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.persistQueueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency-key cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDurability selects the persistence policy by name.
func WithDurability(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.durability = name
		}
	}
}

// WithDBPath sets the SQLite file used when no repository is injected.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithSnapshotID sets the key the snapshot is persisted under.
func WithSnapshotID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.snapshotID = id
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for pending saves.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithEventStart anchors custom session dates at day 1 of the event.
func WithEventStart(t time.Time) Option {
	return func(s *Service) {
		if !t.IsZero() {
			s.eventStart = t
		}
	}
}

// WithRepository injects the persistence adapter. The service closes it on Stop.
func WithRepository(repo repository.Repository) Option {
	return func(s *Service) {
		if repo != nil {
			s.repo = repo
		}
	}
}

// WithCatalog sets the session catalog source.
func WithCatalog(src catalog.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.catalog = src
		}
	}
}

// WithClock overrides the timestamp source for notes and summaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides uuid-based ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
