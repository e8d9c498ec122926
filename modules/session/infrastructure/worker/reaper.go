package worker

import (
	"context"
	"log"
	"time"

	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
)

// Reaper periodically sweeps Sessions stuck in PROCESSING past their
// estimated window and hands each one to the caller's onStuck callback,
// which cmd/worker fails with WORKER_LOST (spec.md §4.7 "C7"). It keeps
// no job record of its own: the Session's status and
// transcription_started_at are all it reads.
type Reaper struct {
	sessions          domainrepo.SessionRepository
	interval          time.Duration
	timeoutMultiplier float64
	minimumTimeout    time.Duration
}

func NewReaper(sessions domainrepo.SessionRepository, interval time.Duration, timeoutMultiplier float64, minimumTimeout time.Duration) *Reaper {
	return &Reaper{
		sessions: sessions, interval: interval,
		timeoutMultiplier: timeoutMultiplier, minimumTimeout: minimumTimeout,
	}
}

// Run ticks until ctx is cancelled, passing to onStuck any PROCESSING
// Session whose transcription_started_at is older than timeoutMultiplier
// times its DurationSeconds or minimumTimeout, whichever is larger.
// DurationSeconds is only set when a Session completes, so a Session in
// PROCESSING is normally judged by minimumTimeout alone.
func (r *Reaper) Run(ctx context.Context, onStuck func(ctx context.Context, sessionID, ownerID string)) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx, onStuck)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context, onStuck func(ctx context.Context, sessionID, ownerID string)) {
	cutoff := time.Now().Add(-r.minimumTimeout)
	stuck, err := r.sessions.ListStuckProcessing(ctx, cutoff)
	if err != nil {
		log.Printf("reaper: failed to list stuck sessions: %v", err)
		return
	}
	for _, session := range stuck {
		if session.TranscriptionStartedAt == nil {
			continue
		}
		timeout := r.minimumTimeout
		if session.DurationSeconds > 0 {
			estimated := time.Duration(float64(session.DurationSeconds) * float64(time.Second) * r.timeoutMultiplier)
			if estimated > timeout {
				timeout = estimated
			}
		}
		if time.Since(*session.TranscriptionStartedAt) < timeout {
			continue
		}
		onStuck(ctx, session.GetID(), session.OwnerID)
	}
}
