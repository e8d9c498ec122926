package entities

import (
	"time"

	"github.com/coachtranscribe/engine/seedwork/domain"
)

// Status is the lifecycle state of a Session, per the transition table in
// spec.md §4.6.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Provider identifies an STT back end, or the "auto" sentinel that is
// resolved at dispatch time.
type Provider string

const (
	ProviderAuto        Provider = "auto"
	ProviderGoogle      Provider = "google"
	ProviderAssemblyAI  Provider = "assemblyai"
)

// supportedLanguages is the closed set validated on Session creation,
// carried over from the original implementation's validate_language rule.
var supportedLanguages = map[string]bool{
	"auto":         true,
	"en-US":        true,
	"en-GB":        true,
	"en-AU":        true,
	"cmn-Hant-TW":  true,
	"cmn-Hans-CN":  true,
	"ja-JP":        true,
	"ko-KR":        true,
	"th-TH":        true,
	"vi-VN":        true,
	"ms-MY":        true,
	"id-ID":        true,
}

// IsSupportedLanguage reports whether tag is in the closed language set.
func IsSupportedLanguage(tag string) bool {
	return supportedLanguages[tag]
}

// Session is the aggregate root of the core: one audio recording and its
// derived, diarized transcript.
type Session struct {
	domain.BaseEntity
	OwnerID  string   `json:"owner_id" gorm:"column:owner_id;not null;index"`
	Title    string   `json:"title" gorm:"column:title;not null"`
	Language string   `json:"language" gorm:"column:language;not null"`
	Provider Provider `json:"provider" gorm:"column:provider;not null"`

	AudioFilename string `json:"audio_filename,omitempty" gorm:"column:audio_filename"`
	BlobPath      string `json:"blob_path,omitempty" gorm:"column:blob_path"`
	DurationSeconds int  `json:"duration_seconds,omitempty" gorm:"column:duration_seconds"`

	Status              Status  `json:"status" gorm:"column:status;not null;index"`
	TranscriptionJobID  string  `json:"transcription_job_id,omitempty" gorm:"column:transcription_job_id"`
	ProviderTranscriptID string `json:"provider_transcript_id,omitempty" gorm:"column:provider_transcript_id"`
	ProgressPercentage  int     `json:"progress_percentage" gorm:"column:progress_percentage;not null;default:0"`
	ErrorMessage        string  `json:"error_message,omitempty" gorm:"column:error_message"`

	SpeakerCount int     `json:"speaker_count,omitempty" gorm:"column:speaker_count"`
	MeanConfidence float64 `json:"mean_confidence,omitempty" gorm:"column:mean_confidence"`

	TranscriptionStartedAt   *time.Time `json:"transcription_started_at,omitempty" gorm:"column:transcription_started_at"`
	TranscriptionCompletedAt *time.Time `json:"transcription_completed_at,omitempty" gorm:"column:transcription_completed_at"`

	RetryCount int `json:"retry_count" gorm:"column:retry_count;not null;default:0"`
}

// TableName sets the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// NewSession creates a new Session entity in the UPLOADING state.
func NewSession(ownerID, title, language string, provider Provider) Session {
	s := Session{
		OwnerID:  ownerID,
		Title:    title,
		Language: language,
		Provider: provider,
		Status:   StatusUploading,
	}
	s.SetID(domain.GenerateID())
	return s
}

// CanUploadAudio is the guard for set_audio / upload_url_request (spec.md §4.6).
func (s *Session) CanUploadAudio() bool {
	return s.Status == StatusUploading || s.Status == StatusFailed
}

// CanStartTranscription is the guard for start_transcription (spec.md §4.6):
// audio must be present and the session must be in PENDING or UPLOADING.
func (s *Session) CanStartTranscription() bool {
	return (s.Status == StatusPending || s.Status == StatusUploading) && s.BlobPath != "" && s.AudioFilename != ""
}

// CanRetry is the guard for retry_transcription.
func (s *Session) CanRetry() bool {
	return s.Status == StatusFailed
}

// CanCancel is the guard for cancel(): PROCESSING or PENDING only.
func (s *Session) CanCancel() bool {
	return s.Status == StatusProcessing || s.Status == StatusPending
}

// IsTerminal reports whether the current run has ended.
func (s *Session) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusCancelled
}

// SetAudio transitions UPLOADING/FAILED -> PENDING with the uploaded object
// recorded (spec.md §4.6 "set_audio").
func (s *Session) SetAudio(blobPath, filename string) error {
	if !s.CanUploadAudio() {
		return domain.NewDomainError(domain.CodeStateConflict, "cannot set audio in status "+string(s.Status), nil)
	}
	s.BlobPath = blobPath
	s.AudioFilename = filename
	s.Status = StatusPending
	s.ErrorMessage = ""
	return nil
}

// ResetForReupload clears audio fields and returns a FAILED session to
// UPLOADING, per spec.md §4.6 "upload_url_request" effect on FAILED.
func (s *Session) ResetForReupload() {
	s.BlobPath = ""
	s.AudioFilename = ""
	s.Status = StatusUploading
	s.ErrorMessage = ""
}

// StartTranscription transitions PENDING -> PROCESSING. resolvedProvider is
// sticky across retries (spec.md §4.2/§4.6).
func (s *Session) StartTranscription(now time.Time, resolvedProvider Provider) error {
	if !s.CanStartTranscription() {
		return domain.NewDomainError(domain.CodeStateConflict, "cannot start transcription in status "+string(s.Status), nil)
	}
	s.Status = StatusProcessing
	s.Provider = resolvedProvider
	s.TranscriptionStartedAt = &now
	s.ProgressPercentage = 0
	return nil
}

// UpdateProgress applies a progress event; dropped silently if not
// PROCESSING or if terminal, per spec.md §4.6 tie-breaks. Monotonic
// non-decreasing within a run.
func (s *Session) UpdateProgress(pct int) bool {
	if s.Status != StatusProcessing {
		return false
	}
	if pct < 0 || pct > 100 {
		return false
	}
	if pct < s.ProgressPercentage {
		return false
	}
	s.ProgressPercentage = pct
	return true
}

// Complete transitions PROCESSING -> COMPLETED. A second call on an
// already-COMPLETED session is a no-op (spec.md §8 idempotence).
func (s *Session) Complete(now time.Time, durationSeconds, speakerCount int, meanConfidence float64) error {
	if s.Status == StatusCompleted {
		return nil
	}
	if s.Status != StatusProcessing {
		return domain.NewDomainError(domain.CodeStateConflict, "cannot complete in status "+string(s.Status), nil)
	}
	s.Status = StatusCompleted
	s.DurationSeconds = durationSeconds
	s.SpeakerCount = speakerCount
	s.MeanConfidence = meanConfidence
	s.ProgressPercentage = 100
	s.TranscriptionCompletedAt = &now
	s.ErrorMessage = ""
	return nil
}

// Fail transitions PROCESSING -> FAILED, leaving audio fields in place.
func (s *Session) Fail(message string) error {
	if message == "" {
		return domain.NewDomainError(domain.CodeInvalidFormat, "error message cannot be empty", nil)
	}
	if s.Status != StatusProcessing {
		return domain.NewDomainError(domain.CodeStateConflict, "cannot fail in status "+string(s.Status), nil)
	}
	s.Status = StatusFailed
	s.ErrorMessage = message
	return nil
}

// Cancel transitions PROCESSING/PENDING -> CANCELLED.
func (s *Session) Cancel() error {
	if !s.CanCancel() {
		return domain.NewDomainError(domain.CodeStateConflict, "cannot cancel in status "+string(s.Status), nil)
	}
	s.Status = StatusCancelled
	return nil
}

// RetryTranscription transitions FAILED -> PENDING, clearing the prior run's
// job bookkeeping (spec.md §4.6 "retry_transcription").
func (s *Session) RetryTranscription() error {
	if !s.CanRetry() {
		return domain.NewDomainError(domain.CodeStateConflict, "cannot retry in status "+string(s.Status), nil)
	}
	s.Status = StatusPending
	s.ErrorMessage = ""
	s.TranscriptionJobID = ""
	s.ProviderTranscriptID = ""
	s.ProgressPercentage = 0
	s.RetryCount++
	return nil
}

// IsFirstRun reports whether no prior completion has happened for this
// Session, used to decide ORIGINAL vs RETRY_SUCCESS usage-log kind.
func (s *Session) IsFirstRun() bool {
	return s.TranscriptionCompletedAt == nil
}

// EstimateProgress implements the fallback progress curve of spec.md §4.6
// when the provider exposes no native progress signal:
// progress = min(99, 100 * elapsed / (2.5 * audio_seconds)).
func EstimateProgress(elapsed time.Duration, audioSeconds int) int {
	if audioSeconds <= 0 {
		return 0
	}
	pct := 100.0 * elapsed.Seconds() / (2.5 * float64(audioSeconds))
	if pct > 99 {
		return 99
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}
