package queries

import (
	"context"
	"errors"
	"time"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// GetStatusQuery reads a Session's current lifecycle state (spec.md §6
// "GetStatus"). User-visible behaviour always returns the current
// state; there is no separate "pending result" representation.
type GetStatusQuery struct {
	SessionID string
	OwnerID   string
}

type GetStatusResult struct {
	SessionID   string          `json:"session_id"`
	Status      entities.Status `json:"status"`
	Progress    int             `json:"progress"`
	Message     string          `json:"message,omitempty"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// GetStatusHandler serves the GetStatus read path.
type GetStatusHandler struct {
	sessions domainrepo.SessionRepository
}

func NewGetStatusHandler(sessions domainrepo.SessionRepository) *GetStatusHandler {
	return &GetStatusHandler{sessions: sessions}
}

func (h *GetStatusHandler) Handle(ctx context.Context, query GetStatusQuery) (*GetStatusResult, error) {
	session, err := h.sessions.Get(ctx, query.SessionID, query.OwnerID)
	if err != nil {
		if errors.Is(err, domainrepo.ErrNotFound) {
			return nil, domain.NewDomainError(domain.CodeNotFound, "session not found", err)
		}
		return nil, domain.NewDomainError(domain.CodeStateConflict, "session store error", err)
	}

	return &GetStatusResult{
		SessionID:   session.GetID(),
		Status:      session.Status,
		Progress:    session.ProgressPercentage,
		Message:     session.ErrorMessage,
		StartedAt:   session.TranscriptionStartedAt,
		CompletedAt: session.TranscriptionCompletedAt,
	}, nil
}
