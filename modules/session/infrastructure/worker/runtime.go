package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/coachtranscribe/engine/modules/session/application/commands"
	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/modules/session/domain/services"
)

// ReadURLTTL is how long the signed URL handed to an STT provider
// stays valid; long enough to cover a batch job's own upload/fetch
// window.
const ReadURLTTL = 2 * time.Hour

// Runtime is the worker-tier loop that dequeues jobs, dispatches them
// to the resolved STT adapter, and drives a Session from PROCESSING to
// either COMPLETED or FAILED (spec.md §4.7 "C7"). Grounded structurally
// on the teacher's background-consumer goroutine in MemoryEventBus
// (single-goroutine dispatch loop with panic-safe recover), extended
// here with the suspension-point/backoff/cancellation contract spec.md
// §5 specifies.
type Runtime struct {
	queue    services.Queue
	sessions domainrepo.SessionRepository
	blobs    services.BlobGateway
	resolver services.Resolver

	progress *commands.ReportProgressHandler
	complete *commands.CompleteTranscriptionHandler
	fail     *commands.FailTranscriptionHandler

	heartbeatInterval time.Duration
	maxAttempts       int
	backoffInitial    time.Duration
	backoffMax        time.Duration
}

func NewRuntime(
	queue services.Queue,
	sessions domainrepo.SessionRepository,
	blobs services.BlobGateway,
	resolver services.Resolver,
	progress *commands.ReportProgressHandler,
	complete *commands.CompleteTranscriptionHandler,
	fail *commands.FailTranscriptionHandler,
	heartbeatInterval, backoffInitial, backoffMax time.Duration,
	maxAttempts int,
) *Runtime {
	return &Runtime{
		queue: queue, sessions: sessions, blobs: blobs, resolver: resolver,
		progress: progress, complete: complete, fail: fail,
		heartbeatInterval: heartbeatInterval, maxAttempts: maxAttempts,
		backoffInitial: backoffInitial, backoffMax: backoffMax,
	}
}

// Run blocks, dequeuing and processing jobs until ctx is cancelled.
func (r *Runtime) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, ack, err := r.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("worker: dequeue error: %v", err)
			continue
		}
		if job == nil {
			continue // BRPOPLPUSH timeout, no job available
		}

		r.processJob(ctx, *job)
		if err := ack(ctx); err != nil {
			log.Printf("worker: ack failed for session %s: %v", job.SessionID, err)
		}
	}
}

// processJob runs one job to completion, recovering from panics so a
// single bad job cannot take the worker loop down (grounded on the
// teacher's MemoryEventBus recover-in-goroutine pattern).
func (r *Runtime) processJob(ctx context.Context, job services.Job) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("worker: panic processing session %s: %v", job.SessionID, rec)
			_ = r.fail.Handle(ctx, commands.FailTranscriptionCommand{
				SessionID: job.SessionID, OwnerID: job.OwnerID,
				Message: "internal worker error",
			})
		}
	}()

	session, err := r.sessions.Get(ctx, job.SessionID, job.OwnerID)
	if err != nil {
		log.Printf("worker: session %s not found: %v", job.SessionID, err)
		return
	}
	if session.Status != entities.StatusProcessing {
		return // cancelled or already handled
	}

	adapter, err := r.resolver.ByName(string(session.Provider))
	if err != nil {
		r.failSession(ctx, job, string(session.Provider), "no provider adapter available: "+err.Error())
		return
	}

	providerJobID := session.ProviderTranscriptID
	if providerJobID == "" {
		readURL, err := r.blobs.ReadURL(ctx, session.BlobPath, ReadURLTTL)
		if err != nil {
			r.failSession(ctx, job, adapter.Name(), "failed to sign audio read URL: "+err.Error())
			return
		}
		providerJobID, err = r.startWithRetry(ctx, adapter, services.JobSpec{
			SessionID: session.GetID(), BlobURI: readURL,
			Language: session.Language, Diarize: true,
		})
		if err != nil {
			r.failSession(ctx, job, adapter.Name(), "failed to start provider job: "+err.Error())
			return
		}
		session.ProviderTranscriptID = providerJobID
		session.TranscriptionJobID = providerJobID
		if err := r.sessions.Update(ctx, session); err != nil {
			log.Printf("worker: failed to persist provider job id for session %s: %v", job.SessionID, err)
		}
	}

	r.pollUntilDone(ctx, job, adapter, providerJobID, session)
}

// startWithRetry retries a transient StartJob failure with exponential
// backoff (spec.md §5 "suspension points ... backoff sleeps").
func (r *Runtime) startWithRetry(ctx context.Context, adapter services.Adapter, spec services.JobSpec) (string, error) {
	backoff := r.backoffInitial
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := r.checkCancelled(ctx, spec.SessionID); err != nil {
			return "", err
		}
		id, err := adapter.StartJob(ctx, spec)
		if err == nil {
			return id, nil
		}
		lastErr = err
		if attempt == r.maxAttempts {
			break
		}
		if !r.sleep(ctx, backoff) {
			return "", ctx.Err()
		}
		backoff = nextBackoff(backoff, r.backoffMax)
	}
	return "", lastErr
}

// pollUntilDone polls the provider, heartbeating progress on C3 and
// checking for cooperative cancellation before each resume (spec.md
// §5). A terminal provider state dispatches the matching
// complete/fail command.
func (r *Runtime) pollUntilDone(ctx context.Context, job services.Job, adapter services.Adapter, providerJobID string, session *entities.Session) {
	ticker := time.NewTicker(r.heartbeatInterval)
	defer ticker.Stop()

	startedAt := time.Now()
	if session.TranscriptionStartedAt != nil {
		startedAt = *session.TranscriptionStartedAt
	}

	consecutiveErrors := 0
	backoff := r.backoffInitial
	for {
		if err := r.checkSessionCancelled(ctx, job); err != nil {
			return
		}

		poll, err := adapter.PollJob(ctx, providerJobID)
		if err != nil {
			consecutiveErrors++
			if consecutiveErrors >= r.maxAttempts {
				r.failSession(ctx, job, adapter.Name(), "provider polling failed: "+err.Error())
				return
			}
			if !r.sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, r.backoffMax)
			continue
		}
		consecutiveErrors = 0
		backoff = r.backoffInitial

		switch poll.Status {
		case services.JobDone:
			result, err := adapter.FetchResult(ctx, providerJobID)
			if err != nil {
				r.failSession(ctx, job, adapter.Name(), "failed to fetch provider result: "+err.Error())
				return
			}
			if err := r.complete.Handle(ctx, commands.CompleteTranscriptionCommand{
				SessionID: job.SessionID, OwnerID: job.OwnerID,
				Result: result, Provider: adapter.Name(),
			}); err != nil {
				log.Printf("worker: failed to record completion for session %s: %v", job.SessionID, err)
			}
			return
		case services.JobFailed:
			msg := "provider reported job failure"
			if poll.Err != nil {
				msg = poll.Err.Error()
			}
			r.failSession(ctx, job, adapter.Name(), msg)
			return
		default:
			pct := poll.ProgressHint
			if pct < 0 {
				pct = entities.EstimateProgress(time.Since(startedAt), session.DurationSeconds)
			}
			if err := r.progress.Handle(ctx, commands.ReportProgressCommand{
				SessionID: job.SessionID, OwnerID: job.OwnerID, Pct: pct,
			}); err != nil {
				log.Printf("worker: heartbeat failed for session %s: %v", job.SessionID, err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Runtime) failSession(ctx context.Context, job services.Job, provider, message string) {
	if err := r.fail.Handle(ctx, commands.FailTranscriptionCommand{
		SessionID: job.SessionID, OwnerID: job.OwnerID,
		Message: message, Provider: provider,
	}); err != nil {
		log.Printf("worker: failed to record failure for session %s: %v", job.SessionID, err)
	}
}

// checkCancelled returns ctx's error once ctx is cancelled, and nil
// otherwise. It does not re-read the Session: a cancel() issued by the
// request tier while StartJob is being retried is first observed by
// checkSessionCancelled at the top of the poll loop.
func (r *Runtime) checkCancelled(ctx context.Context, sessionID string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// checkSessionCancelled is the richer guard used at the top of each
// poll iteration: it re-reads the Session's status from C3 so a
// cancel() issued by the request tier mid-run is observed before the
// next suspension point (spec.md §5 "a cancellation check precedes
// each resume").
func (r *Runtime) checkSessionCancelled(ctx context.Context, job services.Job) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	session, err := r.sessions.Get(ctx, job.SessionID, job.OwnerID)
	if err != nil {
		return nil
	}
	if session.Status != entities.StatusProcessing {
		return errCancelled
	}
	return nil
}

func (r *Runtime) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

var errCancelled = errors.New("session no longer processing")
