// Package worker persists published snapshots off the store's owner path.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/metrics"
)

const policyLabel = "write_behind"

// Saver writes one snapshot under a fixed id.
type Saver interface {
	SaveSnapshot(ctx context.Context, id string, snap model.Snapshot) error
}

// Queue defines how the worker receives snapshots.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Snapshot
}

// Worker drains snapshots into a Saver.
type Worker interface {
	// Run consumes the queue until it is closed and drained, ctx is
	// cancelled, or Shutdown gives up waiting.
	Run(ctx context.Context)

	// Shutdown waits for Run to drain. When ctx expires first the remaining
	// snapshots are abandoned.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker saves snapshots one at a time. When several are waiting
// only the newest is written since it supersedes the others. Failures are
// logged and counted, never retried.
type InMemoryWorker struct {
	queue      Queue
	saver      Saver
	snapshotID string
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		saver:      saver,
		snapshotID: "main",
		name:       "persist-worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	snapshots := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			latest, skipped, open := coalesce(snapshots, snap)
			if skipped > 0 {
				w.logger.Debug(ctx, "coalesced pending snapshots", logger.Int("skipped", skipped))
			}
			w.save(ctx, latest)
			if !open {
				return
			}
		}
	}
}

// coalesce takes whatever is already waiting without blocking and keeps the
// newest. open is false when the channel closed meanwhile.
func coalesce(ch <-chan model.Snapshot, first model.Snapshot) (latest model.Snapshot, skipped int, open bool) {
	latest = first
	for {
		select {
		case next, ok := <-ch:
			if !ok {
				return latest, skipped, false
			}
			latest = next
			skipped++
		default:
			return latest, skipped, true
		}
	}
}

func (w *InMemoryWorker) save(ctx context.Context, snap model.Snapshot) {
	start := time.Now()
	if err := w.saver.SaveSnapshot(ctx, w.snapshotID, snap); err != nil {
		metrics.RecordPersistFailure(policyLabel)
		metrics.RecordErrorByComponent("worker", "save_failed")
		w.logger.Error(ctx, "snapshot save failed",
			logger.String("snapshotID", w.snapshotID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordPersistSave(policyLabel, float64(time.Since(start).Microseconds())/1000)
}

// Shutdown waits for Run to finish draining.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		close(w.shutdown)
		w.logger.Warn(ctx, "shutdown timed out; pending snapshots abandoned")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}
