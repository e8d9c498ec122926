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
)

// RequestUploadURLCommand asks for a signed upload URL for a Session's
// audio object (spec.md §4.6 "upload_url_request").
type RequestUploadURLCommand struct {
	SessionID   string  `json:"session_id"`
	OwnerID     string  `json:"owner_id"`
	Filename    string  `json:"filename"`
	ContentType string  `json:"content_type"`
	FileSizeMB  float64 `json:"file_size_mb"`
	Ext         string  `json:"ext"`
}

type RequestUploadURLResult struct {
	URL      string    `json:"url"`
	BlobPath string    `json:"blob_path"`
	Expiry   time.Time `json:"expiry"`
}

type RequestUploadURLHandler struct {
	sessions domainrepo.SessionRepository
	users    userrepo.UserRepository
	blobs    services.BlobGateway
	ttl      time.Duration
}

func NewRequestUploadURLHandler(sessions domainrepo.SessionRepository, users userrepo.UserRepository, blobs services.BlobGateway, ttl time.Duration) *RequestUploadURLHandler {
	return &RequestUploadURLHandler{sessions: sessions, users: users, blobs: blobs, ttl: ttl}
}

func (h *RequestUploadURLHandler) Handle(ctx context.Context, cmd RequestUploadURLCommand) (*RequestUploadURLResult, error) {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if !session.CanUploadAudio() {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "session cannot accept an upload in status "+string(session.Status), nil)
	}

	user, err := h.users.FindByID(cmd.OwnerID)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeNotFound, "owner not found", err)
	}

	decision := quota.Evaluate(quota.ActionUploadFile, billing.Plan(user.Plan), quota.Usage{
		UsageMinutesThisMonth: user.UsageMinutesThisMonth,
		ExportsThisMonth:      user.ExportsThisMonth,
		CurrentMonthStart:     user.CurrentMonthStart,
	}, time.Now(), 0, cmd.FileSizeMB)
	if !decision.Admit {
		return nil, domain.NewDomainError(domain.CodeFileTooLarge, "file exceeds the plan's maximum upload size", nil)
	}

	wasFailed := session.Status == entities.StatusFailed
	if wasFailed {
		session.ResetForReupload()
		if err := h.sessions.Update(ctx, session); err != nil {
			return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to reset session for reupload", err)
		}
	}

	path := services.ObjectPath(cmd.OwnerID, cmd.SessionID, cmd.Ext)
	url, expiry, err := h.blobs.GenerateWriteURL(ctx, path, cmd.ContentType, h.ttl)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeUpstreamFailed, "failed to generate upload url", err)
	}

	return &RequestUploadURLResult{URL: url, BlobPath: path, Expiry: expiry}, nil
}
