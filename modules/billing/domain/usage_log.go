package domain

import (
	"time"

	"github.com/coachtranscribe/engine/seedwork/domain"
)

// TranscriptionType classifies a UsageLog entry (spec.md §3).
type TranscriptionType string

const (
	TranscriptionOriginal     TranscriptionType = "ORIGINAL"
	TranscriptionRetryFailed  TranscriptionType = "RETRY_FAILED"
	TranscriptionRetrySuccess TranscriptionType = "RETRY_SUCCESS"
	TranscriptionExport       TranscriptionType = "EXPORT"
	TranscriptionManual       TranscriptionType = "MANUAL"
)

// UsageLog is an immutable, append-only billing record (spec.md §3, §4.5).
// Grounded on the original Python UsageLog model (usage_log.py) and
// CreateUsageLogUseCase, reshaped into cents-denominated integer cost per
// spec.md's Open Question decision (cents authoritative, no cost_usd
// field carried — see DESIGN.md).
type UsageLog struct {
	domain.BaseEntity
	OwnerID           string            `json:"owner_id" gorm:"column:owner_id;not null;index"`
	SessionID         string            `json:"session_id" gorm:"column:session_id;not null;uniqueIndex:idx_session_type"`
	TranscriptionType TranscriptionType `json:"transcription_type" gorm:"column:transcription_type;not null;uniqueIndex:idx_session_type"`
	DurationMinutes   int               `json:"duration_minutes" gorm:"column:duration_minutes;not null"`
	Billable          bool              `json:"billable" gorm:"column:billable;not null"`
	CostCents         int               `json:"cost_cents" gorm:"column:cost_cents;not null"`
	Currency          string            `json:"currency" gorm:"column:currency;not null"`
	Provider          string            `json:"provider" gorm:"column:provider;not null"`
	WordCount         int               `json:"word_count,omitempty" gorm:"column:word_count"`
	SpeakerCount      int               `json:"speaker_count,omitempty" gorm:"column:speaker_count"`
	MeanConfidence    float64           `json:"mean_confidence,omitempty" gorm:"column:mean_confidence"`
	ParentLogID       string            `json:"parent_log_id,omitempty" gorm:"column:parent_log_id"`
	CreatedAt         time.Time         `json:"created_at" gorm:"column:created_at;not null"`
}

// TableName sets the table name for GORM. The uniqueIndex on
// (session_id, transcription_type) backs spec.md §4.5's "duplicate
// insertion ... rejected by a uniqueness constraint" invariant.
func (UsageLog) TableName() string {
	return "usage_logs"
}

// NewUsageLog builds a UsageLog row. parentLogID is the id of the
// earliest log for this Session, set for any non-ORIGINAL kind.
func NewUsageLog(ownerID, sessionID string, kind TranscriptionType, durationMinutes int, billable bool, costCents int, currency, provider string, wordCount, speakerCount int, meanConfidence float64, parentLogID string, now time.Time) UsageLog {
	l := UsageLog{
		OwnerID:           ownerID,
		SessionID:         sessionID,
		TranscriptionType: kind,
		DurationMinutes:   durationMinutes,
		Billable:          billable,
		CostCents:         costCents,
		Currency:          currency,
		Provider:          provider,
		WordCount:         wordCount,
		SpeakerCount:      speakerCount,
		MeanConfidence:    meanConfidence,
		ParentLogID:       parentLogID,
		CreatedAt:         now,
	}
	l.SetID(domain.GenerateID())
	return l
}

// CountsTowardMonthlyUsage reports whether this log's minutes should be
// summed into the owner's usage_minutes counter (spec.md §4.5 "Only
// ORIGINAL and RETRY_SUCCESS contribute").
func (l UsageLog) CountsTowardMonthlyUsage() bool {
	return l.TranscriptionType == TranscriptionOriginal || l.TranscriptionType == TranscriptionRetrySuccess
}
