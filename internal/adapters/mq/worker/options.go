package worker

import (
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithSnapshotID sets the key snapshots are saved under.
func WithSnapshotID(id string) Option {
	return func(w *InMemoryWorker) {
		if id != "" {
			w.snapshotID = id
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
