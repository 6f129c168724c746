package store

import (
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithQueueSize bounds the number of intents waiting for the owner.
func WithQueueSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithInitial seeds the first published snapshot.
func WithInitial(snap model.Snapshot) Option {
	return func(s *Store) {
		snap = snap.Normalize()
		s.current.Store(&snap)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
