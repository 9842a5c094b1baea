package queue

import (
	"context"
	"testing"
	"time"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	job := Job{DocumentID: "doc-1", CaseID: "case-1", Kind: model.DocumentBilling, Text: "invoice"}
	if !q.Enqueue(ctx, job) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.DocumentID != "doc-1" {
		t.Errorf("expected doc-1, got %v", got.DocumentID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Backpressure(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, Job{DocumentID: "doc-1"}) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, Job{DocumentID: "doc-2"}) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, Job{DocumentID: "doc-3"}) {
		t.Error("expected enqueue to fail when full")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, Job{DocumentID: "doc-1"}) {
		t.Error("expected enqueue to succeed")
	}
	if err := q.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("close must be idempotent, got: %v", err)
	}
	if q.Enqueue(ctx, Job{DocumentID: "doc-2"}) {
		t.Error("expected enqueue to fail after close")
	}

	// Jobs enqueued before close still drain, then the channel closes.
	ch := q.Dequeue(ctx)
	select {
	case job, ok := <-ch:
		if !ok || job.DocumentID != "doc-1" {
			t.Errorf("expected doc-1, got %v (ok=%v)", job.DocumentID, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out draining queue")
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed after drain")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
