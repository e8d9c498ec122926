package domain

import (
	"time"

	"github.com/coachtranscribe/engine/seedwork/domain"
)

// UsageHistory is a monthly snapshot row, supplemented from the original
// Python source's usage_history.py (dropped from spec.md's distillation
// but cheap to carry, since the ledger transaction already holds the
// row it summarizes). Reduced from the original's full metric set to
// the fields the ledger can actually populate from a UsageLog write —
// no client/API-call/storage metrics, since nothing else in this repo
// tracks them.
type UsageHistory struct {
	domain.BaseEntity
	OwnerID                string    `json:"owner_id" gorm:"column:owner_id;not null;uniqueIndex:idx_owner_period"`
	PeriodStart            time.Time `json:"period_start" gorm:"column:period_start;not null;uniqueIndex:idx_owner_period"`
	SessionsCompleted      int       `json:"sessions_completed" gorm:"column:sessions_completed;not null;default:0"`
	AudioMinutesProcessed  int       `json:"audio_minutes_processed" gorm:"column:audio_minutes_processed;not null;default:0"`
	BillableTranscriptions int       `json:"billable_transcriptions" gorm:"column:billable_transcriptions;not null;default:0"`
	FreeRetries            int       `json:"free_retries" gorm:"column:free_retries;not null;default:0"`
	TotalCostCents         int       `json:"total_cost_cents" gorm:"column:total_cost_cents;not null;default:0"`
	GoogleSTTMinutes       int       `json:"google_stt_minutes" gorm:"column:google_stt_minutes;not null;default:0"`
	AssemblyAIMinutes      int       `json:"assemblyai_minutes" gorm:"column:assemblyai_minutes;not null;default:0"`
	PlanAtPeriod           Plan      `json:"plan_at_period" gorm:"column:plan_at_period;not null"`
}

// TableName sets the table name for GORM.
func (UsageHistory) TableName() string {
	return "usage_histories"
}

// ApplyLog folds one UsageLog into the snapshot, called inside the same
// transaction as the ledger write.
func (h *UsageHistory) ApplyLog(l UsageLog) {
	if l.CountsTowardMonthlyUsage() {
		h.SessionsCompleted++
		h.AudioMinutesProcessed += l.DurationMinutes
	}
	if l.TranscriptionType == TranscriptionRetryFailed {
		h.FreeRetries++
	}
	if l.Billable {
		h.BillableTranscriptions++
		h.TotalCostCents += l.CostCents
	}
	switch l.Provider {
	case "google":
		h.GoogleSTTMinutes += l.DurationMinutes
	case "assemblyai":
		h.AssemblyAIMinutes += l.DurationMinutes
	}
}
