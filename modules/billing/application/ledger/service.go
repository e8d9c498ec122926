// Package ledger implements the usage ledger (spec.md §4.5): appending
// an immutable UsageLog and advancing the owner's monthly counters in
// one transaction. Grounded on the original Python
// CreateUsageLogUseCase.execute / _calculate_cost /
// _update_user_usage_counters (usage_tracking_use_case.py), reshaped
// into integer cents and a single GORM transaction per spec.md §4.5's
// atomicity invariant.
package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/coachtranscribe/engine/modules/billing/application/quota"
	billing "github.com/coachtranscribe/engine/modules/billing/domain"
	domainrepo "github.com/coachtranscribe/engine/modules/billing/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/database"
)

// Rates holds the per-provider cents-per-minute table (spec.md §4.5
// "Rates: google = 3 cents/min, assemblyai = 2 cents/min
// (configurable)"), sourced from config.BillingConfig.
type Rates struct {
	GoogleCentsPerMinute     int
	AssemblyAICentsPerMinute int
	Currency                 string
}

func (r Rates) centsPerMinute(provider string) int {
	switch provider {
	case "google":
		return r.GoogleCentsPerMinute
	case "assemblyai":
		return r.AssemblyAICentsPerMinute
	default:
		return r.AssemblyAICentsPerMinute
	}
}

// CompletionInput is everything a session completion hands the ledger.
type CompletionInput struct {
	OwnerID         string
	SessionID       string
	Kind            billing.TranscriptionType
	DurationSeconds int64
	Provider        string
	WordCount       int
	SpeakerCount    int
	MeanConfidence  float64
	Plan            billing.Plan
}

// Service implements the atomic usage-ledger transaction.
type Service struct {
	db      *gorm.DB
	users   domainrepo.UserLedgerPort
	logs    domainrepo.UsageLogRepository
	history domainrepo.UsageHistoryRepository
	rates   Rates
}

func NewService(users domainrepo.UserLedgerPort, logs domainrepo.UsageLogRepository, history domainrepo.UsageHistoryRepository, rates Rates) *Service {
	return &Service{db: database.GetDB(), users: users, logs: logs, history: history, rates: rates}
}

// durationMinutes implements spec.md §4.5's
// "duration_minutes = ceil(duration_seconds / 60), minimum 1 if
// duration_seconds > 0".
func durationMinutes(durationSeconds int64) int {
	if durationSeconds <= 0 {
		return 0
	}
	minutes := int(math.Ceil(float64(durationSeconds) / 60.0))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// calculateCost implements spec.md §4.5's cost model: base rate times
// a speaker surcharge (10% per speaker beyond two) times a low
// confidence surcharge (20% under 0.8 mean confidence).
func calculateCost(minutes int, provider string, speakerCount int, meanConfidence float64, rates Rates) int {
	if minutes <= 0 {
		return 0
	}
	cost := float64(minutes * rates.centsPerMinute(provider))
	if speakerCount > 2 {
		cost *= 1 + 0.1*float64(speakerCount-2)
	}
	if meanConfidence > 0 && meanConfidence < 0.8 {
		cost *= 1.2
	}
	return int(math.Round(cost))
}

// RecordCompletion appends the UsageLog and advances the owner's
// counters in one transaction (spec.md §4.5, §5 "Concurrent completions
// for the same user take a row-level lock on the User during the
// ledger transaction"). A duplicate (SessionID, Kind) pair is
// idempotent: nothing is written and RecordCompletion returns nil, nil.
func (s *Service) RecordCompletion(ctx context.Context, in CompletionInput, now time.Time) (*billing.UsageLog, error) {
	if exists, err := s.logs.ExistsForSessionAndType(ctx, in.SessionID, in.Kind); err != nil {
		return nil, fmt.Errorf("ledger: check duplicate: %w", err)
	} else if exists {
		return nil, nil
	}

	minutes := durationMinutes(in.DurationSeconds)
	billable := in.Kind != billing.TranscriptionRetryFailed
	costCents := 0
	if billable {
		costCents = calculateCost(minutes, in.Provider, in.SpeakerCount, in.MeanConfidence, s.rates)
	}

	parentLogID := ""
	if in.Kind != billing.TranscriptionOriginal {
		if parent, err := s.logs.EarliestForSession(ctx, in.SessionID); err != nil {
			return nil, fmt.Errorf("ledger: lookup parent log: %w", err)
		} else if parent != nil {
			parentLogID = parent.GetID()
		}
	}

	log := billing.NewUsageLog(in.OwnerID, in.SessionID, in.Kind, minutes, billable, costCents,
		s.rates.Currency, in.Provider, in.WordCount, in.SpeakerCount, in.MeanConfidence, parentLogID, now)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Every port is rebound to tx so the log insert, the row-locked
		// user read/update, and the history upsert run on one
		// connection inside one transaction (spec.md §4.5(iv), §5) —
		// otherwise LockForUpdate's row lock is released the instant
		// its own statement auto-commits and provides no protection
		// across the counter update that follows.
		logs := s.logs.WithTx(tx)
		users := s.users.WithTx(tx)
		history := s.history.WithTx(tx)

		if err := logs.Create(ctx, &log); err != nil {
			return fmt.Errorf("ledger: insert usage log: %w", err)
		}

		user, err := users.LockForUpdate(ctx, in.OwnerID)
		if err != nil {
			return fmt.Errorf("ledger: lock user: %w", err)
		}
		user.RolloverIfNeeded(now)
		if log.CountsTowardMonthlyUsage() {
			user.AdvanceUsage(minutes, costCents)
		}
		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("ledger: update user: %w", err)
		}

		periodStart := quota.MonthStart(now)
		snapshot, err := history.GetOrCreate(ctx, in.OwnerID, periodStart, in.Plan)
		if err != nil {
			return fmt.Errorf("ledger: load usage history: %w", err)
		}
		snapshot.ApplyLog(log)
		if err := history.Update(ctx, snapshot); err != nil {
			return fmt.Errorf("ledger: update usage history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}
