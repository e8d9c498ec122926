package queries

import (
	"context"
	"errors"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// GetSessionQuery reads one Session, ownership-scoped (spec.md §6
// "GetSession(id)").
type GetSessionQuery struct {
	SessionID string
	OwnerID   string
}

type GetSessionHandler struct {
	sessions domainrepo.SessionRepository
}

func NewGetSessionHandler(sessions domainrepo.SessionRepository) *GetSessionHandler {
	return &GetSessionHandler{sessions: sessions}
}

func (h *GetSessionHandler) Handle(ctx context.Context, query GetSessionQuery) (*entities.Session, error) {
	session, err := h.sessions.Get(ctx, query.SessionID, query.OwnerID)
	if err != nil {
		if errors.Is(err, domainrepo.ErrNotFound) {
			return nil, domain.NewDomainError(domain.CodeNotFound, "session not found", err)
		}
		return nil, domain.NewDomainError(domain.CodeStateConflict, "session store error", err)
	}
	return session, nil
}
