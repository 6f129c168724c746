package worker_test

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	worker "github.com/edytawrobel/team-coords-aiengineer/internal/adapters/mq/worker"
	model "github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	logging "github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	if err := logging.Init(logging.WithOutput(io.Discard)); err != nil {
		os.Exit(1)
	}
	goleak.VerifyTestMain(m)
}

type mockQueue struct {
	ch chan model.Snapshot
}

func newMockQueue(size int) *mockQueue {
	return &mockQueue{ch: make(chan model.Snapshot, size)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.Snapshot { return mq.ch }

type mockSaver struct {
	mu    sync.Mutex
	saved []model.Snapshot
	ids   []string
	err   error
	block chan struct{}
}

func (ms *mockSaver) SaveSnapshot(_ context.Context, id string, snap model.Snapshot) error {
	if ms.block != nil {
		<-ms.block
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.saved = append(ms.saved, snap)
	ms.ids = append(ms.ids, id)
	return nil
}

func (ms *mockSaver) count() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.saved)
}

func snapWithTeam(n int) model.Snapshot {
	team := make([]model.TeamMember, n)
	for i := range team {
		team[i] = model.TeamMember{ID: string(rune('a' + i)), Name: "m"}
	}
	return model.Snapshot{Team: team}.Normalize()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a write-behind worker", t, func() {
		q := newMockQueue(8)
		saver := &mockSaver{}
		w := worker.NewInMemoryWorker(q, saver, worker.WithSnapshotID("event-2025"), worker.WithName("test-worker"))
		ctx := context.Background()

		convey.Convey("When snapshots are queued and the queue closes", func() {
			q.ch <- snapWithTeam(1)
			q.ch <- snapWithTeam(2)
			q.ch <- snapWithTeam(3)
			close(q.ch)

			go w.Run(ctx)
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then the newest snapshot is persisted under the configured id", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldBeGreaterThanOrEqualTo, 1)
				last := saver.saved[len(saver.saved)-1]
				convey.So(last.Team, convey.ShouldHaveLength, 3)
				convey.So(saver.ids[0], convey.ShouldEqual, "event-2025")
			})
		})

		convey.Convey("When saving fails", func() {
			saver.err = errors.New("disk full")
			q.ch <- snapWithTeam(1)
			close(q.ch)

			go w.Run(ctx)
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			convey.Convey("Then the worker keeps going and drains", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			go w.Run(runCtx)
			cancel()

			convey.Convey("Then Run returns", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When shutdown times out on a stuck save", func() {
			saver.block = make(chan struct{})
			q.ch <- snapWithTeam(1)

			go w.Run(ctx)
			shutdownCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			err := w.Shutdown(shutdownCtx)
			close(saver.block)
			<-w.Done()

			convey.Convey("Then it reports the timeout", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}
