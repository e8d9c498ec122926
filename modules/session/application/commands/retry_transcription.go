package commands

import (
	"context"

	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// RetryTranscriptionCommand re-runs a FAILED Session (spec.md §4.6
// "retry_transcription"). It shares its dispatch path with
// StartTranscriptionHandler: once the Session is back in PENDING with
// its prior segments cleared, the same admission/resolve/enqueue
// sequence applies.
type RetryTranscriptionCommand struct {
	SessionID        string `json:"session_id"`
	OwnerID          string `json:"owner_id"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Diarize          bool   `json:"diarize"`
}

type RetryTranscriptionHandler struct {
	sessions domainrepo.SessionRepository
	start    *StartTranscriptionHandler
}

func NewRetryTranscriptionHandler(sessions domainrepo.SessionRepository, start *StartTranscriptionHandler) *RetryTranscriptionHandler {
	return &RetryTranscriptionHandler{sessions: sessions, start: start}
}

// Handle clears the failed run's bookkeeping (job id, provider
// transcript id, segments) and transitions FAILED -> PENDING, then
// delegates to StartTranscriptionHandler for the PENDING -> PROCESSING
// dispatch, so a retry observes exactly the same quota/audio-missing
// guards a first run does (spec.md §4.6 "audio still reachable by
// C1"). The resolved provider recorded on the prior run stays on the
// Session, so Resolve("auto") still lands on the same back end
// (spec.md §4.2 "sticky across retries").
func (h *RetryTranscriptionHandler) Handle(ctx context.Context, cmd RetryTranscriptionCommand) (*StartTranscriptionResult, error) {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if !session.CanRetry() {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "cannot retry in status "+string(session.Status), nil)
	}

	if err := session.RetryTranscription(); err != nil {
		return nil, err
	}
	if err := h.sessions.ClearSegments(ctx, session.GetID()); err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to clear prior run's segments", err)
	}
	if err := h.sessions.Update(ctx, session); err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to persist retry reset", err)
	}

	return h.start.Handle(ctx, StartTranscriptionCommand{
		SessionID:        cmd.SessionID,
		OwnerID:          cmd.OwnerID,
		EstimatedMinutes: cmd.EstimatedMinutes,
		Diarize:          cmd.Diarize,
	})
}
