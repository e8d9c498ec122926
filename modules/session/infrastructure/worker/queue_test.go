package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/coachtranscribe/engine/modules/session/domain/services"
)

func newTestQueue(t *testing.T) (*RedisQueue, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisQueue(client, "transcription-jobs"), client
}

func TestRedisQueue_EnqueueDequeueRoundTrip(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	want := services.Job{SessionID: "sess-1", OwnerID: "owner-1", Attempt: 1}
	if err := q.Enqueue(ctx, want); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	got, ack, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a job, got nil")
	}
	if *got != want {
		t.Errorf("dequeued job = %+v, want %+v", *got, want)
	}

	processing, err := q.ProcessingLength(ctx)
	if err != nil {
		t.Fatalf("ProcessingLength failed: %v", err)
	}
	if processing != 1 {
		t.Errorf("expected 1 job in the processing list before ack, got %d", processing)
	}

	if err := ack(ctx); err != nil {
		t.Fatalf("ack failed: %v", err)
	}
	processing, err = q.ProcessingLength(ctx)
	if err != nil {
		t.Fatalf("ProcessingLength failed: %v", err)
	}
	if processing != 0 {
		t.Errorf("expected the processing list to be empty after ack, got %d", processing)
	}
}

func TestRedisQueue_JobSurvivesCrashBeforeAck(t *testing.T) {
	// Simulates a worker crash between dequeue and ack: the job must
	// remain visible in the processing list rather than being dropped
	// (spec.md §4.7 "WORKER_LOST").
	q, _ := newTestQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := q.Enqueue(ctx, services.Job{SessionID: "sess-2", OwnerID: "owner-1"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	_, ack, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	_ = ack // never called — the "crash"

	processing, err := q.ProcessingLength(ctx)
	if err != nil {
		t.Fatalf("ProcessingLength failed: %v", err)
	}
	if processing != 1 {
		t.Errorf("expected the unacked job to remain in the processing list, got %d", processing)
	}
}
