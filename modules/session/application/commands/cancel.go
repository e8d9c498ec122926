package commands

import (
	"context"
	"time"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/modules/session/domain/services"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/events"
)

// CancelCommand cancels a Session in PROCESSING or PENDING (spec.md
// §4.6 "cancel"). No UsageLog is written.
type CancelCommand struct {
	SessionID string `json:"session_id"`
	OwnerID   string `json:"owner_id"`
}

type CancelHandler struct {
	sessions domainrepo.SessionRepository
	resolver services.Resolver
	eventBus events.EventBus
}

func NewCancelHandler(sessions domainrepo.SessionRepository, resolver services.Resolver, eventBus events.EventBus) *CancelHandler {
	return &CancelHandler{sessions: sessions, resolver: resolver, eventBus: eventBus}
}

func (h *CancelHandler) Handle(ctx context.Context, cmd CancelCommand) error {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return translateRepoErr(err)
	}

	wasProcessing := session.Status == entities.StatusProcessing
	providerJobID := session.ProviderTranscriptID
	resolvedProvider := string(session.Provider)

	if err := session.Cancel(); err != nil {
		return err
	}
	if err := h.sessions.Update(ctx, session); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to persist cancellation", err)
	}

	// Best-effort upstream cancel; the worker also stops polling once it
	// observes CANCELLED, so a failure here is not fatal (spec.md §4.7).
	if wasProcessing && providerJobID != "" {
		if adapter, err := h.resolver.ByName(resolvedProvider); err == nil {
			_ = adapter.CancelJob(ctx, providerJobID)
		}
	}

	h.eventBus.Publish("session.cancelled", &SessionCancelledEvent{
		SessionID:   session.GetID(),
		OwnerID:     cmd.OwnerID,
		CancelledAt: time.Now(),
	})
	return nil
}

// SessionCancelledEvent is published once a Session reaches CANCELLED.
type SessionCancelledEvent struct {
	SessionID   string    `json:"session_id"`
	OwnerID     string    `json:"owner_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}
