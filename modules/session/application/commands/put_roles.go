package commands

import (
	"context"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// PutSpeakerRolesCommand assigns a role to every segment from a given
// speaker in a Session (spec.md §6 "PutSpeakerRoles"). May only be
// written once the Session is COMPLETED (spec.md §3 "SessionRole /
// SegmentRole" lifecycle).
type PutSpeakerRolesCommand struct {
	SessionID string
	OwnerID   string
	Roles     map[int]string // speaker_id -> "coach" | "client"
}

// PutSegmentRolesCommand assigns a role to individual segments
// (spec.md §6 "PutSegmentRoles"), taking precedence over any
// SessionRole on export (spec.md §4.8).
type PutSegmentRolesCommand struct {
	SessionID string
	OwnerID   string
	Roles     map[string]string // segment_id -> "coach" | "client"
}

// RoleHandler implements both role-overlay write paths; they share the
// same guard (Session must be COMPLETED) and repository, so one
// handler type serves both commands per spec.md §4.6's "C6 is the
// single point that may mutate Session status" — role writes don't
// mutate status but still gate on it here, the narrowest place that
// knows the Session's current lifecycle state.
type RoleHandler struct {
	sessions domainrepo.SessionRepository
}

func NewRoleHandler(sessions domainrepo.SessionRepository) *RoleHandler {
	return &RoleHandler{sessions: sessions}
}

func (h *RoleHandler) PutSpeakerRoles(ctx context.Context, cmd PutSpeakerRolesCommand) error {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return translateRepoErr(err)
	}
	if session.Status != entities.StatusCompleted {
		return domain.NewDomainError(domain.CodeStateConflict, "roles may only be set once a session is completed", nil)
	}

	roles := make(map[int]entities.Role, len(cmd.Roles))
	for speakerID, raw := range cmd.Roles {
		role, err := entities.ParseRole(raw)
		if err != nil {
			return err
		}
		roles[speakerID] = role
	}
	return h.sessions.PutSessionRoles(ctx, session.GetID(), roles)
}

func (h *RoleHandler) PutSegmentRoles(ctx context.Context, cmd PutSegmentRolesCommand) error {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return translateRepoErr(err)
	}
	if session.Status != entities.StatusCompleted {
		return domain.NewDomainError(domain.CodeStateConflict, "roles may only be set once a session is completed", nil)
	}

	roles := make(map[string]entities.Role, len(cmd.Roles))
	for segmentID, raw := range cmd.Roles {
		role, err := entities.ParseRole(raw)
		if err != nil {
			return err
		}
		roles[segmentID] = role
	}
	return h.sessions.PutSegmentRoles(ctx, session.GetID(), roles)
}
