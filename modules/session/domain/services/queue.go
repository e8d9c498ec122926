package services

import "context"

// Job is the durable work-queue payload for one transcription attempt
// (spec.md §5 "the request tier never blocks on STT").
type Job struct {
	SessionID string `json:"session_id"`
	OwnerID   string `json:"owner_id"`
	Attempt   int    `json:"attempt"`
}

// Queue is the narrow port the job orchestrator (C6) enqueues onto and
// the worker runtime (C7) dequeues from.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks until a job is available, ctx is cancelled, or the
	// implementation's wait elapses, in which case it returns a nil job
	// and nil error. The returned ack removes the job from the in-flight
	// list once processing has finished (reliable-queue handoff); a job
	// whose ack is never called stays in the in-flight list and is not
	// re-queued.
	Dequeue(ctx context.Context) (*Job, func(ctx context.Context) error, error)
}
