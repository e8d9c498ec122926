package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/coachtranscribe/engine/modules/session/application/export"
	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// ExportTranscriptQuery renders a COMPLETED Session's transcript
// (spec.md §6 "ExportTranscript(id, format)"). Exporting is a pure
// projection: it reads C3's segments and role overlays and does not
// mutate anything (spec.md §4.8).
type ExportTranscriptQuery struct {
	SessionID string
	OwnerID   string
	Format    export.Format
}

type ExportTranscriptResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportTranscriptHandler struct {
	sessions domainrepo.SessionRepository
	renderer *export.Service
}

func NewExportTranscriptHandler(sessions domainrepo.SessionRepository, renderer *export.Service) *ExportTranscriptHandler {
	return &ExportTranscriptHandler{sessions: sessions, renderer: renderer}
}

func (h *ExportTranscriptHandler) Handle(ctx context.Context, query ExportTranscriptQuery) (*ExportTranscriptResult, error) {
	session, err := h.sessions.Get(ctx, query.SessionID, query.OwnerID)
	if err != nil {
		if errors.Is(err, domainrepo.ErrNotFound) {
			return nil, domain.NewDomainError(domain.CodeNotFound, "session not found", err)
		}
		return nil, domain.NewDomainError(domain.CodeStateConflict, "session store error", err)
	}
	if session.Status != entities.StatusCompleted {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "session must be completed before it can be exported", nil)
	}

	segments, err := h.sessions.ListSegments(ctx, session.GetID())
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to load transcript segments", err)
	}
	sessionRoles, err := h.sessions.GetSessionRoles(ctx, session.GetID())
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to load session roles", err)
	}
	segmentRoles, err := h.sessions.GetSegmentRoles(ctx, session.GetID())
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to load segment roles", err)
	}

	data, contentType, err := h.renderer.Render(session, segments, sessionRoles, segmentRoles, query.Format)
	if err != nil {
		return nil, err
	}

	return &ExportTranscriptResult{
		Filename:    fmt.Sprintf("%s.%s", session.GetID(), query.Format),
		ContentType: contentType,
		Data:        data,
	}, nil
}
