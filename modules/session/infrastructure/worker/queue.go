// Package worker implements the durable work queue and worker runtime
// (spec.md §5, §4.7 — C7). Grounded structurally on
// itsneelabh-gomind/orchestration/redis_task_queue.go's LPUSH/BRPOP
// queue shape, extended to the reliable-queue variant (BRPOPLPUSH into
// a processing list) so a worker that dies mid-job doesn't silently
// drop it. Nothing in this package re-queues a job left in the
// processing list; the reaper (reaper.go) fails the stuck Session by
// its status and start time instead.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coachtranscribe/engine/modules/session/domain/services"
)

// RedisQueue implements services.Queue over a Redis list pair.
type RedisQueue struct {
	client        *redis.Client
	queueKey      string
	processingKey string
}

func NewRedisQueue(client *redis.Client, streamKey string) *RedisQueue {
	return &RedisQueue{
		client:        client,
		queueKey:      streamKey,
		processingKey: streamKey + ":processing",
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job services.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("worker queue: marshal job: %w", err)
	}
	return q.client.LPush(ctx, q.queueKey, data).Err()
}

// Dequeue uses BRPOPLPUSH to atomically move a job from the queue into
// the processing list, so a worker crash between dequeue and ack
// leaves the job recoverable rather than lost.
func (q *RedisQueue) Dequeue(ctx context.Context) (*services.Job, func(ctx context.Context) error, error) {
	raw, err := q.client.BRPopLPush(ctx, q.queueKey, q.processingKey, 5*time.Second).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("worker queue: dequeue: %w", err)
	}

	var job services.Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		q.client.LRem(ctx, q.processingKey, 1, raw)
		return nil, nil, fmt.Errorf("worker queue: unmarshal job: %w", err)
	}

	ack := func(ctx context.Context) error {
		return q.client.LRem(ctx, q.processingKey, 1, raw).Err()
	}
	return &job, ack, nil
}

// ProcessingLength reports how many jobs are currently in flight
// (dequeued and not yet acked).
func (q *RedisQueue) ProcessingLength(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.processingKey).Result()
}

var _ services.Queue = (*RedisQueue)(nil)
