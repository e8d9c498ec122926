package commands

import (
	"context"

	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/modules/session/domain/services"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// ConfirmUploadCommand probes the audio object a caller was given a
// signed URL for and, once it has landed, advances the Session from
// UPLOADING to PENDING (spec.md §6 "ConfirmUpload(id) → {exists,
// size_bytes, ready}").
type ConfirmUploadCommand struct {
	SessionID string
	OwnerID   string
	Filename  string
}

type ConfirmUploadResult struct {
	Exists    bool  `json:"exists"`
	SizeBytes int64 `json:"size_bytes"`
	Ready     bool  `json:"ready"`
}

type ConfirmUploadHandler struct {
	sessions domainrepo.SessionRepository
	blobs    services.BlobGateway
	setAudio *SetAudioHandler
}

func NewConfirmUploadHandler(sessions domainrepo.SessionRepository, blobs services.BlobGateway, setAudio *SetAudioHandler) *ConfirmUploadHandler {
	return &ConfirmUploadHandler{sessions: sessions, blobs: blobs, setAudio: setAudio}
}

func (h *ConfirmUploadHandler) Handle(ctx context.Context, cmd ConfirmUploadCommand) (*ConfirmUploadResult, error) {
	if _, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID); err != nil {
		return nil, translateRepoErr(err)
	}

	path := services.ObjectPath(cmd.OwnerID, cmd.SessionID, extOf(cmd.Filename))
	exists, size, err := h.blobs.Exists(ctx, path)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeUpstreamFailed, "failed to probe uploaded object", err)
	}
	if !exists {
		return &ConfirmUploadResult{Exists: false}, nil
	}

	if _, err := h.setAudio.Handle(ctx, SetAudioCommand{
		SessionID: cmd.SessionID, OwnerID: cmd.OwnerID,
		BlobPath: path, Filename: cmd.Filename,
	}); err != nil {
		return nil, err
	}

	return &ConfirmUploadResult{Exists: true, SizeBytes: size, Ready: true}, nil
}

func extOf(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i+1:]
		}
	}
	return ""
}
