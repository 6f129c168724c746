package durability

import (
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

type settings struct {
	snapshotID      string
	queueSize       int
	shutdownTimeout time.Duration
	logger          logger.Logger
}

func defaultSettings() settings {
	return settings{
		snapshotID:      "main",
		queueSize:       64,
		shutdownTimeout: 10 * time.Second,
	}
}

// Option configures a policy.
type Option func(*settings)

// WithSnapshotID sets the key snapshots are saved under.
func WithSnapshotID(id string) Option {
	return func(s *settings) {
		if id != "" {
			s.snapshotID = id
		}
	}
}

// WithQueueSize bounds the write-behind queue.
func WithQueueSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithShutdownTimeout bounds how long Close waits for pending saves.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.shutdownTimeout = d
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
