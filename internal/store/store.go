// Package store owns the coordination snapshot. A single goroutine applies
// intents in submission order and publishes each result atomically, so
// readers never wait on writers.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/mq/queue"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/state"
	"github.com/edytawrobel/team-coords-aiengineer/internal/durability"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/metrics"
)

const defaultQueueSize = 1024

type request struct {
	intent state.Intent
	reply  chan result
}

type result struct {
	snap model.Snapshot
	err  error
}

// Store serializes intents through one owner goroutine.
type Store struct {
	queueSize int
	queue     *queue.InMemoryQueue[request]
	policy    durability.Policy
	current   atomic.Pointer[model.Snapshot]
	logger    logger.Logger

	runCtx    context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// New creates a store that hands every transition to policy. Call Start
// before dispatching.
func New(policy durability.Policy, opts ...Option) *Store {
	s := &Store{
		queueSize: defaultQueueSize,
		policy:    policy,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy == nil {
		s.policy = durability.None{}
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("store")
	}
	if s.current.Load() == nil {
		empty := model.Snapshot{}.Normalize()
		s.current.Store(&empty)
	}
	s.queue = queue.NewInMemoryQueue[request](queue.WithCapacity(s.queueSize), queue.WithName("intents"))
	return s
}

// Start launches the owner goroutine. Cancelling ctx does not stop the
// owner; use Stop for an orderly shutdown. Start after Stop is a no-op.
func (s *Store) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
		go s.run()
		s.logger.Info(ctx, "store started",
			logger.Int("queueSize", s.queueSize),
			logger.String("durability", s.policy.Name()),
		)
	})
}

// Snapshot returns the latest published snapshot. Callers must not modify
// its slices.
func (s *Store) Snapshot() model.Snapshot {
	return *s.current.Load()
}

// Dispatch submits intent and waits for its outcome. On rejection the
// returned snapshot is the unchanged current one. If ctx ends first the
// intent may still be applied later.
func (s *Store) Dispatch(ctx context.Context, intent state.Intent) (model.Snapshot, error) {
	if intent == nil {
		return s.Snapshot(), state.ErrNilIntent
	}
	req := request{intent: intent, reply: make(chan result, 1)}
	if !s.queue.Enqueue(ctx, req) {
		switch {
		case s.queue.IsClosed():
			return s.Snapshot(), ErrStopped
		case ctx.Err() != nil:
			return s.Snapshot(), ctx.Err()
		default:
			metrics.RecordIntentRejected(intent.Kind(), "backpressure")
			return s.Snapshot(), ErrBackpressure
		}
	}

	select {
	case res := <-req.reply:
		return res.snap, res.err
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case <-s.done:
		// The owner may have answered just before exiting.
		select {
		case res := <-req.reply:
			return res.snap, res.err
		default:
			return s.Snapshot(), ErrStopped
		}
	}
}

func (s *Store) run() {
	defer close(s.done)
	for req := range s.queue.Dequeue(s.runCtx) {
		req.reply <- s.handle(req.intent)
	}
}

func (s *Store) handle(intent state.Intent) result {
	start := time.Now()
	kind := intent.Kind()
	cur := s.current.Load()

	next, err := state.Apply(*cur, intent)
	if err != nil {
		metrics.RecordIntentRejected(kind, reason(err))
		s.logger.Debug(s.runCtx, "intent rejected", logger.String("kind", kind), logger.Error(err))
		return result{snap: *cur, err: err}
	}

	if s.policy.Stage() == durability.BeforePublish {
		if err := s.policy.Persist(s.runCtx, next); err != nil {
			metrics.RecordIntentRejected(kind, reason(err))
			return result{snap: *cur, err: err}
		}
	}

	s.current.Store(&next)
	metrics.RecordIntentApplied(kind)
	metrics.RecordApplyLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateSnapshotShape(Shape(next))

	if s.policy.Stage() == durability.AfterPublish {
		_ = s.policy.Persist(s.runCtx, next)
	}
	return result{snap: next}
}

// Stop refuses new intents, lets the owner drain what is queued and closes
// the durability policy. If ctx ends before the drain completes the rest of
// the queue is abandoned.
func (s *Store) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		_ = s.queue.Close()
		neverStarted := false
		s.startOnce.Do(func() {
			neverStarted = true
			close(s.done)
		})
		if neverStarted {
			err = s.policy.Close()
			return
		}

		select {
		case <-s.done:
		case <-ctx.Done():
			s.cancel()
			<-s.done
			err = fmt.Errorf("store drain: %w", ctx.Err())
		}
		s.cancel()
		if cerr := s.policy.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close durability policy: %w", cerr))
		}
		s.logger.Info(ctx, "store stopped")
	})
	return err
}

// Done is closed once the owner goroutine has exited.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// Shape summarizes snap for the snapshot gauges.
func Shape(snap model.Snapshot) metrics.SnapshotShape {
	custom := snap.CustomSessions()
	return metrics.SnapshotShape{
		Team:           len(snap.Team),
		CatalogSession: len(snap.Sessions) - custom,
		CustomSession:  custom,
		Attendance:     len(snap.Attendance),
		Notes:          len(snap.Notes),
		Summaries:      len(snap.Summaries),
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, state.ErrNotFound):
		return "not_found"
	case errors.Is(err, state.ErrDuplicateID):
		return "duplicate"
	case errors.Is(err, durability.ErrPersistFailed):
		return "persist_failed"
	case errors.Is(err, model.ErrInvalidSession),
		errors.Is(err, model.ErrInvalidMember),
		errors.Is(err, model.ErrInvalidNote),
		errors.Is(err, model.ErrInvalidSummary),
		errors.Is(err, model.ErrInvalidClock):
		return "invalid"
	default:
		return "error"
	}
}
