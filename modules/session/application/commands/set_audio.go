// Package commands implements the job orchestrator (spec.md §4.6): one
// handler per transition in the Session state machine, each grounded
// structurally on the teacher's start_transcription.go/
// complete_transcription.go (command struct + handler struct holding
// narrow repository ports and an event bus, Handle(ctx, cmd) (*Result,
// error)).
package commands

import (
	"context"
	"time"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/events"
)

// SetAudioCommand records the audio object a caller has already
// uploaded (spec.md §4.6 "set_audio").
type SetAudioCommand struct {
	SessionID string `json:"session_id"`
	OwnerID   string `json:"owner_id"`
	BlobPath  string `json:"blob_path"`
	Filename  string `json:"filename"`
}

type SetAudioResult struct {
	SessionID string          `json:"session_id"`
	Status    entities.Status `json:"status"`
}

type SetAudioHandler struct {
	sessions domainrepo.SessionRepository
	eventBus events.EventBus
}

func NewSetAudioHandler(sessions domainrepo.SessionRepository, eventBus events.EventBus) *SetAudioHandler {
	return &SetAudioHandler{sessions: sessions, eventBus: eventBus}
}

func (h *SetAudioHandler) Handle(ctx context.Context, cmd SetAudioCommand) (*SetAudioResult, error) {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return nil, translateRepoErr(err)
	}

	if err := session.SetAudio(cmd.BlobPath, cmd.Filename); err != nil {
		return nil, err
	}

	if err := h.sessions.Update(ctx, session); err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to persist session", err)
	}

	h.eventBus.Publish("session.audio_set", &SessionAudioSetEvent{
		SessionID: session.GetID(),
		OwnerID:   session.OwnerID,
		SetAt:     time.Now(),
	})

	return &SetAudioResult{SessionID: session.GetID(), Status: session.Status}, nil
}

// SessionAudioSetEvent is published once an audio object is attached to
// a Session.
type SessionAudioSetEvent struct {
	SessionID string    `json:"session_id"`
	OwnerID   string    `json:"owner_id"`
	SetAt     time.Time `json:"set_at"`
}
