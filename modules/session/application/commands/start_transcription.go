package commands

import (
	"context"
	"time"

	"github.com/coachtranscribe/engine/modules/billing/application/quota"
	billing "github.com/coachtranscribe/engine/modules/billing/domain"
	userrepo "github.com/coachtranscribe/engine/modules/user/domain/repositories"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/modules/session/domain/services"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/events"
)

// StartTranscriptionCommand dispatches a PENDING Session to a resolved
// STT back end (spec.md §4.6 "start_transcription"). EstimatedMinutes
// backs the C4.check_minutes pre-admission.
type StartTranscriptionCommand struct {
	SessionID        string `json:"session_id"`
	OwnerID          string `json:"owner_id"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Diarize          bool   `json:"diarize"`
}

type StartTranscriptionResult struct {
	SessionID string          `json:"session_id"`
	Status    entities.Status `json:"status"`
	Provider  string          `json:"provider"`
}

type StartTranscriptionHandler struct {
	sessions domainrepo.SessionRepository
	users    userrepo.UserRepository
	resolver services.Resolver
	queue    services.Queue
	blobs    services.BlobGateway
	eventBus events.EventBus
}

func NewStartTranscriptionHandler(
	sessions domainrepo.SessionRepository,
	users userrepo.UserRepository,
	resolver services.Resolver,
	queue services.Queue,
	blobs services.BlobGateway,
	eventBus events.EventBus,
) *StartTranscriptionHandler {
	return &StartTranscriptionHandler{
		sessions: sessions, users: users, resolver: resolver,
		queue: queue, blobs: blobs, eventBus: eventBus,
	}
}

func (h *StartTranscriptionHandler) Handle(ctx context.Context, cmd StartTranscriptionCommand) (*StartTranscriptionResult, error) {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if !session.CanStartTranscription() {
		return nil, domain.NewDomainError(domain.CodeAudioMissing, "session has no audio to transcribe, or is not pending", nil)
	}

	// spec.md §4.6 edge case: if C1 reports the audio object missing on
	// start, the transition is rejected and the Session is left in its
	// current state rather than advanced.
	if exists, _, err := h.blobs.Exists(ctx, session.BlobPath); err != nil {
		return nil, domain.NewDomainError(domain.CodeUpstreamFailed, "failed to probe audio object", err)
	} else if !exists {
		return nil, domain.NewDomainError(domain.CodeAudioMissing, "audio object no longer exists in blob storage", nil)
	}

	user, err := h.users.FindByID(cmd.OwnerID)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeNotFound, "owner not found", err)
	}

	now := time.Now()
	decision := quota.Evaluate(quota.ActionCheckMinutes, billing.Plan(user.Plan), quota.Usage{
		UsageMinutesThisMonth: user.UsageMinutesThisMonth,
		ExportsThisMonth:      user.ExportsThisMonth,
		CurrentMonthStart:     user.CurrentMonthStart,
	}, now, cmd.EstimatedMinutes, 0)
	if !decision.Admit {
		return nil, domain.NewDomainError(domain.CodeQuotaExceeded, "monthly transcription minutes exhausted", nil)
	}

	adapter, err := h.resolver.Resolve(string(session.Provider))
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeLangNotSupported, "no STT provider available", err)
	}
	if session.Language == "auto" && !adapter.SupportsLanguageAuto() {
		return nil, domain.NewDomainError(domain.CodeLangNotSupported, "resolved provider cannot auto-detect language", nil)
	}

	ok, err := h.sessions.CompareAndSetStatus(ctx, session.GetID(), entities.StatusPending, entities.StatusProcessing)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to transition session", err)
	}
	if !ok {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "session was already started by a concurrent request", nil)
	}

	if err := session.StartTranscription(now, entities.Provider(adapter.Name())); err != nil {
		return nil, err
	}
	if err := h.sessions.Update(ctx, session); err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to persist session", err)
	}

	if err := h.queue.Enqueue(ctx, services.Job{SessionID: session.GetID(), OwnerID: cmd.OwnerID, Attempt: 1}); err != nil {
		return nil, domain.NewDomainError(domain.CodeUpstreamFailed, "failed to enqueue transcription job", err)
	}

	h.eventBus.Publish("session.transcription_started", &SessionTranscriptionStartedEvent{
		SessionID: session.GetID(),
		OwnerID:   cmd.OwnerID,
		Provider:  adapter.Name(),
		StartedAt: now,
	})

	return &StartTranscriptionResult{SessionID: session.GetID(), Status: session.Status, Provider: adapter.Name()}, nil
}

// SessionTranscriptionStartedEvent is published when a Session begins
// its PROCESSING run.
type SessionTranscriptionStartedEvent struct {
	SessionID string    `json:"session_id"`
	OwnerID   string    `json:"owner_id"`
	Provider  string    `json:"provider"`
	StartedAt time.Time `json:"started_at"`
}
