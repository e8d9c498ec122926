package queries

import (
	"context"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// maxListLimit is spec.md §6's "limit <= 100" ceiling on ListSessions.
const maxListLimit = 100

// ListSessionsQuery lists a caller's Sessions, optionally filtered by
// status (spec.md §6 "ListSessions(status?, limit<=100, offset)").
type ListSessionsQuery struct {
	OwnerID string
	Status  *entities.Status
	Limit   int
	Offset  int
}

type ListSessionsHandler struct {
	sessions domainrepo.SessionRepository
}

func NewListSessionsHandler(sessions domainrepo.SessionRepository) *ListSessionsHandler {
	return &ListSessionsHandler{sessions: sessions}
}

func (h *ListSessionsHandler) Handle(ctx context.Context, query ListSessionsQuery) ([]*entities.Session, error) {
	limit := query.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	sessions, err := h.sessions.List(ctx, query.OwnerID, query.Status, limit, offset)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "session store error", err)
	}
	return sessions, nil
}
