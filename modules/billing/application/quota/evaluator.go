// Package quota evaluates admission decisions against plan limits
// (spec.md §4.4 "Quota evaluator").
package quota

import (
	"time"

	billing "github.com/coachtranscribe/engine/modules/billing/domain"
)

// Usage is the caller-supplied snapshot of a User's current monthly
// window, as read from the session store/ledger. The evaluator is a
// pure function over this plus PlanConfiguration; it performs no I/O.
type Usage struct {
	UsageMinutesThisMonth int
	ExportsThisMonth      int
	CurrentMonthStart     time.Time
}

// Action identifies a quota-gated operation (spec.md §4.4 table).
type Action string

const (
	ActionCreateSession    Action = "create_session"
	ActionTranscribe       Action = "transcribe"
	ActionCheckMinutes     Action = "check_minutes"
	ActionUploadFile       Action = "upload_file"
	ActionExportTranscript Action = "export_transcript"
)

// Decision is the evaluator's verdict plus the limit snapshot the
// caller should surface on denial (spec.md §7 "Admission").
type Decision struct {
	Admit bool
	Limit PlanConfigurationSnapshot
	// NeedsRollover is true when CurrentMonthStart precedes the
	// current UTC calendar month; the caller must reset counters
	// atomically as part of this admission (spec.md §4.4).
	NeedsRollover bool
}

// PlanConfigurationSnapshot mirrors the relevant PlanConfiguration
// fields for the action being checked, so callers can render a useful
// denial message without re-fetching the plan.
type PlanConfigurationSnapshot struct {
	MaxMinutesPerMonth int
	MaxFileSizeMB      float64
	MaxExportsPerMonth int
}

func snapshot(cfg billing.PlanConfiguration) PlanConfigurationSnapshot {
	return PlanConfigurationSnapshot{
		MaxMinutesPerMonth: cfg.MaxMinutesPerMonth,
		MaxFileSizeMB:      cfg.MaxFileSizeMB,
		MaxExportsPerMonth: cfg.MaxExportsPerMonth,
	}
}

// MonthStart returns the first instant of t's UTC calendar month
// (spec.md §4.4 "Monthly window boundary").
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Evaluate admits or rejects an action per the spec.md §4.4 table. now
// is injected so rollover detection is deterministic and testable.
func Evaluate(action Action, plan billing.Plan, usage Usage, now time.Time, requestedMinutes int, fileSizeMB float64) Decision {
	cfg := billing.GetLimits(plan)
	needsRollover := usage.CurrentMonthStart.Before(MonthStart(now))

	switch action {
	case ActionCreateSession, ActionTranscribe:
		// Phase 2: unlimited (spec.md §4.4) — always admit.
		return Decision{Admit: true, Limit: snapshot(cfg), NeedsRollover: needsRollover}

	case ActionCheckMinutes:
		if cfg.MaxMinutesPerMonth == billing.Unlimited {
			return Decision{Admit: true, Limit: snapshot(cfg), NeedsRollover: needsRollover}
		}
		effectiveUsage := usage.UsageMinutesThisMonth
		if needsRollover {
			effectiveUsage = 0
		}
		admit := effectiveUsage+requestedMinutes <= cfg.MaxMinutesPerMonth
		return Decision{Admit: admit, Limit: snapshot(cfg), NeedsRollover: needsRollover}

	case ActionUploadFile:
		admit := fileSizeMB <= cfg.MaxFileSizeMB
		return Decision{Admit: admit, Limit: snapshot(cfg), NeedsRollover: needsRollover}

	case ActionExportTranscript:
		if cfg.MaxExportsPerMonth == billing.Unlimited {
			return Decision{Admit: true, Limit: snapshot(cfg), NeedsRollover: needsRollover}
		}
		effectiveExports := usage.ExportsThisMonth
		if needsRollover {
			effectiveExports = 0
		}
		admit := effectiveExports < cfg.MaxExportsPerMonth
		return Decision{Admit: admit, Limit: snapshot(cfg), NeedsRollover: needsRollover}

	default:
		// Unknown action: fail closed for safety (billable-adjacent by
		// default since the action is unrecognized).
		return Decision{Admit: false, Limit: snapshot(cfg), NeedsRollover: needsRollover}
	}
}
