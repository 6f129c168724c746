package queue

import (
	"context"
	"testing"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue[model.Attendance](WithCapacity(2), WithName("test-basic"))
	ctx := context.Background()
	defer func() { _ = q.Close() }()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	link := model.Attendance{SessionID: "s1", MemberID: "m1"}
	if !q.Enqueue(ctx, link) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got != link {
		t.Errorf("expected %v, got %v", link, got)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(2), WithName("test-capacity"))
	ctx := context.Background()

	if !q.Enqueue(ctx, 1) || !q.Enqueue(ctx, 2) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, 3) {
		t.Error("expected enqueue to fail when queue is full")
	}
	if q.Capacity() != 2 {
		t.Errorf("expected capacity 2, got %d", q.Capacity())
	}
	_ = q.Close()
}

func TestInMemoryQueue_OrderAndDrainOnClose(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(8), WithName("test-order"))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !q.Enqueue(ctx, i) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, 99) {
		t.Error("expected enqueue on closed queue to fail")
	}

	want := 0
	for got := range q.Dequeue(ctx) {
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
		want++
	}
	if want != 5 {
		t.Errorf("expected 5 drained items, got %d", want)
	}

	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(1), WithName("test-cancel"))
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if q.Enqueue(ctx, 1) {
		t.Error("expected enqueue with cancelled context to fail")
	}

	out := q.Dequeue(ctx)
	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected no item from a cancelled dequeue")
		}
	case <-time.After(time.Second):
		t.Error("dequeue channel was not closed after cancellation")
	}
}
