package commands

import (
	"context"

	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// ReportProgressCommand is issued by the worker runtime on each
// heartbeat (spec.md §4.6 "progress(pct)").
type ReportProgressCommand struct {
	SessionID string `json:"session_id"`
	OwnerID   string `json:"owner_id"`
	Pct       int    `json:"pct"`
}

type ReportProgressHandler struct {
	sessions domainrepo.SessionRepository
}

func NewReportProgressHandler(sessions domainrepo.SessionRepository) *ReportProgressHandler {
	return &ReportProgressHandler{sessions: sessions}
}

// Handle applies the progress update. A rejected update (stale session,
// out-of-range or non-monotonic percentage) is not an error: the
// caller simply has nothing useful to report and the worker continues
// polling (spec.md §4.6 tie-breaks).
func (h *ReportProgressHandler) Handle(ctx context.Context, cmd ReportProgressCommand) error {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return translateRepoErr(err)
	}
	if !session.UpdateProgress(cmd.Pct) {
		return nil
	}
	if err := h.sessions.Update(ctx, session); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to persist progress", err)
	}
	return nil
}
