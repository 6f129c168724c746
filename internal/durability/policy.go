// Package durability decides when a published snapshot reaches storage.
package durability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/mq/queue"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/mq/worker"
	"github.com/edytawrobel/team-coords-aiengineer/internal/config"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/metrics"
)

// Stage says whether Persist runs before or after a snapshot is published.
type Stage int

const (
	AfterPublish Stage = iota
	BeforePublish
)

func (s Stage) String() string {
	if s == BeforePublish {
		return "before_publish"
	}
	return "after_publish"
}

// Saver is the storage side a policy writes to.
type Saver interface {
	SaveSnapshot(ctx context.Context, id string, snap model.Snapshot) error
}

// Policy is invoked by the store for every successful transition.
type Policy interface {
	Name() string
	Stage() Stage
	// Persist hands snap to storage. Only BeforePublish policies return
	// errors; the store rejects the intent when they do.
	Persist(ctx context.Context, snap model.Snapshot) error
	Close() error
}

// New builds the policy registered under name.
func New(name string, saver Saver, opts ...Option) (Policy, error) {
	switch name {
	case config.DurabilityWriteBehind:
		return NewWriteBehind(saver, opts...), nil
	case config.DurabilitySync:
		return NewSynchronous(saver, opts...), nil
	case config.DurabilityWriteAhead:
		return NewWriteAhead(saver, opts...), nil
	case config.DurabilityNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func resolve(name string, opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("durability." + name)
	}
	return s
}

// WriteBehind queues snapshots for a single background worker. Persist never
// blocks; when the queue is full the snapshot is dropped since a later one
// supersedes it.
type WriteBehind struct {
	queue           *queue.InMemoryQueue[model.Snapshot]
	worker          *worker.InMemoryWorker
	cancel          context.CancelFunc
	shutdownTimeout time.Duration
	logger          logger.Logger
	closeOnce       sync.Once
	closeErr        error
}

// NewWriteBehind starts the background worker.
func NewWriteBehind(saver Saver, opts ...Option) *WriteBehind {
	s := resolve(config.DurabilityWriteBehind, opts)
	q := queue.NewInMemoryQueue[model.Snapshot](queue.WithCapacity(s.queueSize), queue.WithName("persist"))
	w := worker.NewInMemoryWorker(q, saver,
		worker.WithSnapshotID(s.snapshotID),
		worker.WithLogger(s.logger.Named("worker")),
	)
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	return &WriteBehind{
		queue:           q,
		worker:          w,
		cancel:          cancel,
		shutdownTimeout: s.shutdownTimeout,
		logger:          s.logger,
	}
}

func (p *WriteBehind) Name() string { return config.DurabilityWriteBehind }
func (p *WriteBehind) Stage() Stage { return AfterPublish }

func (p *WriteBehind) Persist(ctx context.Context, snap model.Snapshot) error {
	if !p.queue.Enqueue(ctx, snap) {
		metrics.RecordPersistDropped()
		p.logger.Warn(ctx, "persist queue full or closed; snapshot dropped")
	}
	return nil
}

// Close stops accepting snapshots and waits for the worker to drain.
func (p *WriteBehind) Close() error {
	p.closeOnce.Do(func() {
		_ = p.queue.Close()
		ctx, cancel := context.WithTimeout(context.Background(), p.shutdownTimeout)
		defer cancel()
		p.closeErr = p.worker.Shutdown(ctx)
		p.cancel()
		<-p.worker.Done()
	})
	return p.closeErr
}

// Synchronous saves inline after publication. Failures are logged only.
type Synchronous struct {
	saver      Saver
	snapshotID string
	logger     logger.Logger
}

func NewSynchronous(saver Saver, opts ...Option) *Synchronous {
	s := resolve(config.DurabilitySync, opts)
	return &Synchronous{saver: saver, snapshotID: s.snapshotID, logger: s.logger}
}

func (p *Synchronous) Name() string { return config.DurabilitySync }
func (p *Synchronous) Stage() Stage { return AfterPublish }

func (p *Synchronous) Persist(ctx context.Context, snap model.Snapshot) error {
	if err := save(ctx, p.saver, p.snapshotID, p.Name(), snap); err != nil {
		p.logger.Error(ctx, "snapshot save failed", logger.String("snapshotID", p.snapshotID), logger.Error(err))
	}
	return nil
}

func (p *Synchronous) Close() error { return nil }

// WriteAhead saves before publication; a failed save rejects the intent.
type WriteAhead struct {
	saver      Saver
	snapshotID string
	logger     logger.Logger
}

func NewWriteAhead(saver Saver, opts ...Option) *WriteAhead {
	s := resolve(config.DurabilityWriteAhead, opts)
	return &WriteAhead{saver: saver, snapshotID: s.snapshotID, logger: s.logger}
}

func (p *WriteAhead) Name() string { return config.DurabilityWriteAhead }
func (p *WriteAhead) Stage() Stage { return BeforePublish }

func (p *WriteAhead) Persist(ctx context.Context, snap model.Snapshot) error {
	if err := save(ctx, p.saver, p.snapshotID, p.Name(), snap); err != nil {
		p.logger.Warn(ctx, "write-ahead save failed; intent rejected", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}

func (p *WriteAhead) Close() error { return nil }

// None discards every snapshot.
type None struct{}

func (None) Name() string { return config.DurabilityNone }
func (None) Stage() Stage { return AfterPublish }
func (None) Persist(context.Context, model.Snapshot) error { return nil }
func (None) Close() error { return nil }

func save(ctx context.Context, saver Saver, id, policy string, snap model.Snapshot) error {
	start := time.Now()
	if err := saver.SaveSnapshot(ctx, id, snap); err != nil {
		metrics.RecordPersistFailure(policy)
		return err
	}
	metrics.RecordPersistSave(policy, float64(time.Since(start).Microseconds())/1000)
	return nil
}
