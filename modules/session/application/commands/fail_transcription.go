package commands

import (
	"context"
	"time"

	billing "github.com/coachtranscribe/engine/modules/billing/domain"
	"github.com/coachtranscribe/engine/modules/billing/application/ledger"
	userrepo "github.com/coachtranscribe/engine/modules/user/domain/repositories"

	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/events"
)

// FailTranscriptionCommand is issued by the worker runtime (on a
// provider JobFailed, an exhausted retry budget, or the reaper's
// WORKER_LOST detection) to move a Session to FAILED (spec.md §4.6
// "fail(message)").
type FailTranscriptionCommand struct {
	SessionID string
	OwnerID   string
	Message   string
	Provider  string
}

type FailTranscriptionHandler struct {
	sessions domainrepo.SessionRepository
	ledger   *ledger.Service
	eventBus events.EventBus
}

func NewFailTranscriptionHandler(sessions domainrepo.SessionRepository, ledgerSvc *ledger.Service, eventBus events.EventBus) *FailTranscriptionHandler {
	return &FailTranscriptionHandler{sessions: sessions, ledger: ledgerSvc, eventBus: eventBus}
}

// Handle transitions the Session to FAILED. If this run was itself a
// retry (RetryCount > 0), a non-billable RETRY_FAILED UsageLog is
// written at fail time rather than deferred to a later completion:
// the original use case this is grounded on (CreateUsageLogUseCase)
// accepts a transcription_type at the call site, and a failed retry
// has no later completion event to attach the log to.
func (h *FailTranscriptionHandler) Handle(ctx context.Context, cmd FailTranscriptionCommand) error {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return translateRepoErr(err)
	}

	wasRetry := session.RetryCount > 0
	durationSeconds := session.DurationSeconds

	if err := session.Fail(cmd.Message); err != nil {
		return err
	}
	if err := h.sessions.Update(ctx, session); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to persist failure", err)
	}

	now := time.Now()
	if wasRetry {
		if _, err := h.ledger.RecordCompletion(ctx, ledger.CompletionInput{
			OwnerID:         cmd.OwnerID,
			SessionID:       session.GetID(),
			Kind:            billing.TranscriptionRetryFailed,
			DurationSeconds: int64(durationSeconds),
			Provider:        cmd.Provider,
		}, now); err != nil {
			return domain.NewDomainError(domain.CodeUpstreamFailed, "failed to record retry-failed usage log", err)
		}
	}

	h.eventBus.Publish("session.failed", &SessionFailedEvent{
		SessionID: session.GetID(),
		OwnerID:   cmd.OwnerID,
		Message:   cmd.Message,
		FailedAt:  now,
	})
	return nil
}

// SessionFailedEvent is published once a Session reaches FAILED.
type SessionFailedEvent struct {
	SessionID string    `json:"session_id"`
	OwnerID   string    `json:"owner_id"`
	Message   string    `json:"message"`
	FailedAt  time.Time `json:"failed_at"`
}
