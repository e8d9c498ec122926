package commands

import (
	"context"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// CreateSessionCommand creates a new Session in UPLOADING (spec.md §6
// "CreateSession(title, language, provider)").
type CreateSessionCommand struct {
	OwnerID  string
	Title    string
	Language string
	Provider string
}

type CreateSessionResult struct {
	Session *entities.Session `json:"session"`
}

type CreateSessionHandler struct {
	sessions domainrepo.SessionRepository
}

func NewCreateSessionHandler(sessions domainrepo.SessionRepository) *CreateSessionHandler {
	return &CreateSessionHandler{sessions: sessions}
}

func (h *CreateSessionHandler) Handle(ctx context.Context, cmd CreateSessionCommand) (*CreateSessionResult, error) {
	if cmd.Title == "" {
		return nil, domain.NewDomainError(domain.CodeInvalidFormat, "title is required", nil)
	}
	if !entities.IsSupportedLanguage(cmd.Language) {
		return nil, domain.NewDomainError(domain.CodeLangNotSupported, "unsupported language tag: "+cmd.Language, nil)
	}

	provider := entities.Provider(cmd.Provider)
	switch provider {
	case entities.ProviderAuto, entities.ProviderGoogle, entities.ProviderAssemblyAI:
	default:
		return nil, domain.NewDomainError(domain.CodeInvalidFormat, "unknown provider: "+cmd.Provider, nil)
	}

	session := entities.NewSession(cmd.OwnerID, cmd.Title, cmd.Language, provider)
	if err := h.sessions.Save(ctx, &session); err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to persist new session", err)
	}
	return &CreateSessionResult{Session: &session}, nil
}
