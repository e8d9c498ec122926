package commands

import (
	"context"
	"time"

	billing "github.com/coachtranscribe/engine/modules/billing/domain"
	"github.com/coachtranscribe/engine/modules/billing/application/ledger"
	userrepo "github.com/coachtranscribe/engine/modules/user/domain/repositories"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/modules/session/domain/services"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/events"
)

// CompleteTranscriptionCommand is issued by the worker runtime once a
// provider job reaches JobDone and its Result has been fetched
// (spec.md §4.6 "complete").
type CompleteTranscriptionCommand struct {
	SessionID string
	OwnerID   string
	Result    services.Result
	Provider  string
}

type CompleteTranscriptionHandler struct {
	sessions domainrepo.SessionRepository
	users    userrepo.UserRepository
	ledger   *ledger.Service
	eventBus events.EventBus
}

func NewCompleteTranscriptionHandler(sessions domainrepo.SessionRepository, users userrepo.UserRepository, ledgerSvc *ledger.Service, eventBus events.EventBus) *CompleteTranscriptionHandler {
	return &CompleteTranscriptionHandler{sessions: sessions, users: users, ledger: ledgerSvc, eventBus: eventBus}
}

// Handle persists the segments, transitions the Session to COMPLETED,
// and records the matching UsageLog in the ledger. The usage-log kind
// is decided before Complete() mutates TranscriptionCompletedAt: a
// run that follows a retry (RetryCount > 0) or an earlier completion
// (IsFirstRun() false) logs RETRY_SUCCESS, any other run logs ORIGINAL
// (spec.md §3, §4.5).
func (h *CompleteTranscriptionHandler) Handle(ctx context.Context, cmd CompleteTranscriptionCommand) error {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return translateRepoErr(err)
	}

	// A redelivered completion on an already-COMPLETED session must be a
	// pure no-op (spec.md §8 "a second complete(...) ... does not
	// double-bill"). session.Complete() itself already no-ops on a
	// repeat call, but by then IsFirstRun() is false (the first run set
	// TranscriptionCompletedAt), so the kind below would be computed as
	// RETRY_SUCCESS and RecordCompletion's (SessionID, kind) dedup check
	// would not match the existing ORIGINAL row — billing the owner a
	// second time. Return before any mutation or billing happens.
	if session.Status == entities.StatusCompleted {
		return nil
	}

	kind := billing.TranscriptionOriginal
	if !session.IsFirstRun() || session.RetryCount > 0 {
		kind = billing.TranscriptionRetrySuccess
	}

	segments := make([]entities.TranscriptSegment, 0, len(cmd.Result.Segments))
	wordCount := 0
	for i, seg := range cmd.Result.Segments {
		ts, err := entities.NewTranscriptSegment(session.GetID(), seg.SpeakerID, seg.StartSeconds, seg.EndSeconds, seg.Content, seg.Confidence, seg.HasConfidence, i)
		if err != nil {
			return err
		}
		segments = append(segments, ts)
		wordCount += wordCountOf(seg.Content)
	}

	now := time.Now()
	if err := session.Complete(now, cmd.Result.DurationSeconds, cmd.Result.SpeakerCount, cmd.Result.MeanConfidence); err != nil {
		return err
	}
	if err := h.sessions.ClearSegments(ctx, session.GetID()); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to clear prior segments", err)
	}
	if err := h.sessions.SaveSegments(ctx, session.GetID(), segments); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to persist transcript segments", err)
	}
	if err := h.sessions.Update(ctx, session); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to persist completed session", err)
	}

	user, err := h.users.FindByID(cmd.OwnerID)
	if err != nil {
		return domain.NewDomainError(domain.CodeNotFound, "owner not found", err)
	}

	if _, err := h.ledger.RecordCompletion(ctx, ledger.CompletionInput{
		OwnerID:         cmd.OwnerID,
		SessionID:       session.GetID(),
		Kind:            kind,
		DurationSeconds: int64(cmd.Result.DurationSeconds),
		Provider:        cmd.Provider,
		WordCount:       wordCount,
		SpeakerCount:    cmd.Result.SpeakerCount,
		MeanConfidence:  cmd.Result.MeanConfidence,
		Plan:            billing.Plan(user.Plan),
	}, now); err != nil {
		return domain.NewDomainError(domain.CodeUpstreamFailed, "failed to record usage log", err)
	}

	h.eventBus.Publish("session.completed", &SessionCompletedEvent{
		SessionID:   session.GetID(),
		OwnerID:     cmd.OwnerID,
		CompletedAt: now,
	})
	return nil
}

func wordCountOf(content string) int {
	count := 0
	inWord := false
	for _, r := range content {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if isSpace {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}

// SessionCompletedEvent is published once a Session reaches COMPLETED.
type SessionCompletedEvent struct {
	SessionID   string    `json:"session_id"`
	OwnerID     string    `json:"owner_id"`
	CompletedAt time.Time `json:"completed_at"`
}
