package dtos

import (
	"time"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
)

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Title    string `json:"title" binding:"required"`
	Language string `json:"language" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

// RequestUploadURLRequest is the body of POST /sessions/:id/upload-url.
type RequestUploadURLRequest struct {
	Filename    string  `json:"filename" binding:"required"`
	ContentType string  `json:"content_type" binding:"required"`
	FileSizeMB  float64 `json:"file_size_mb" binding:"required"`
	Ext         string  `json:"ext" binding:"required"`
}

// ConfirmUploadRequest is the body of POST /sessions/:id/confirm-upload.
type ConfirmUploadRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// StartTranscriptionRequest is the body of POST /sessions/:id/start.
type StartTranscriptionRequest struct {
	EstimatedMinutes int  `json:"estimated_minutes" binding:"required"`
	Diarize          bool `json:"diarize"`
}

// RetryTranscriptionRequest is the body of POST /sessions/:id/retry.
type RetryTranscriptionRequest struct {
	EstimatedMinutes int  `json:"estimated_minutes" binding:"required"`
	Diarize          bool `json:"diarize"`
}

// PutSpeakerRolesRequest is the body of PUT /sessions/:id/speaker-roles.
type PutSpeakerRolesRequest struct {
	Roles map[int]string `json:"roles" binding:"required"`
}

// PutSegmentRolesRequest is the body of PUT /sessions/:id/segment-roles.
type PutSegmentRolesRequest struct {
	Roles map[string]string `json:"roles" binding:"required"`
}

// UploadTranscriptRequest is the body of POST /sessions/:id/transcript.
type UploadTranscriptRequest struct {
	Filename string `json:"filename" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// SessionResponse is the wire representation of a Session, including
// the derived fields spec.md §6's GetSession/ListSessions expose.
type SessionResponse struct {
	ID                       string     `json:"id"`
	Title                    string     `json:"title"`
	Language                 string     `json:"language"`
	Provider                 string     `json:"provider"`
	Status                   string     `json:"status"`
	AudioFilename            string     `json:"audio_filename,omitempty"`
	ProgressPercentage       int        `json:"progress_percentage"`
	ErrorMessage             string     `json:"error_message,omitempty"`
	DurationSeconds          int        `json:"duration_seconds,omitempty"`
	SpeakerCount             int        `json:"speaker_count,omitempty"`
	MeanConfidence           float64    `json:"mean_confidence,omitempty"`
	TranscriptionStartedAt   *time.Time `json:"transcription_started_at,omitempty"`
	TranscriptionCompletedAt *time.Time `json:"transcription_completed_at,omitempty"`
	RetryCount               int        `json:"retry_count"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// ToSessionResponse converts a Session entity to its wire shape.
func ToSessionResponse(s *entities.Session) SessionResponse {
	return SessionResponse{
		ID:                       s.GetID(),
		Title:                    s.Title,
		Language:                 s.Language,
		Provider:                 string(s.Provider),
		Status:                   string(s.Status),
		AudioFilename:            s.AudioFilename,
		ProgressPercentage:       s.ProgressPercentage,
		ErrorMessage:             s.ErrorMessage,
		DurationSeconds:          s.DurationSeconds,
		SpeakerCount:             s.SpeakerCount,
		MeanConfidence:           s.MeanConfidence,
		TranscriptionStartedAt:   s.TranscriptionStartedAt,
		TranscriptionCompletedAt: s.TranscriptionCompletedAt,
		RetryCount:               s.RetryCount,
		CreatedAt:                s.GetCreatedAt(),
		UpdatedAt:                s.GetUpdatedAt(),
	}
}

// ListSessionsResponse wraps a page of Sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int                `json:"total"`
}

// ToListSessionsResponse converts a slice of Session entities.
func ToListSessionsResponse(sessions []*entities.Session) ListSessionsResponse {
	out := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = ToSessionResponse(s)
	}
	return ListSessionsResponse{Sessions: out, Total: len(out)}
}
