package repository

import (
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

type settings struct {
	busyTimeout time.Duration
	logger      logger.Logger
	now         func() time.Time
}

func defaultSettings() settings {
	return settings{
		busyTimeout: 5 * time.Second,
		now:         time.Now,
	}
}

// Option applies a configuration option to a repository.
type Option func(*settings)

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the timestamp source for updated_at columns.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
