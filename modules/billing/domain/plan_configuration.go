// Package domain holds the billing module's plan and usage types.
package domain

// Plan identifies a subscription tier (spec.md §3 User.plan).
type Plan string

const (
	PlanFree           Plan = "FREE"
	PlanStudent        Plan = "STUDENT"
	PlanPro            Plan = "PRO"
	PlanEnterprise     Plan = "ENTERPRISE"
	PlanCoachingSchool Plan = "COACHING_SCHOOL"
)

// Unlimited marks a PlanConfiguration field as having no numeric cap.
const Unlimited = -1

// PlanConfiguration exposes monthly limits and feature flags for a plan
// (spec.md §3). An immutable snapshot as viewed by a single admission
// decision. Grounded on the original Python source's PlanLimits table
// (usage_tracking_use_case.py), extended from its three tiers
// (FREE/PRO/ENTERPRISE) to the five spec.md §3 names.
type PlanConfiguration struct {
	Plan                 Plan
	MaxMinutesPerMonth   int // Unlimited (-1) for no cap
	MaxSessionsPerMonth  int // Phase 2: always Unlimited per spec.md §4.4
	MaxFileSizeMB        float64
	MaxExportsPerMonth   int
	MaxConcurrentJobs    int
	RetentionDays        int
	ExportFormats        []string
	Features             []string
}

// defaultConfigurations is the closed table of plan limits. Values for
// FREE/PRO/ENTERPRISE are ported verbatim from PlanLimits.get_limits in
// the original Python source; STUDENT and COACHING_SCHOOL are invented
// (no source of truth in spec.md or the original) — see DESIGN.md's
// Open Question decisions.
var defaultConfigurations = map[Plan]PlanConfiguration{
	PlanFree: {
		Plan:                PlanFree,
		MaxMinutesPerMonth:  120,
		MaxSessionsPerMonth: Unlimited,
		MaxFileSizeMB:       50,
		MaxExportsPerMonth:  5,
		MaxConcurrentJobs:   1,
		RetentionDays:       30,
		ExportFormats:       []string{"json", "txt"},
		Features:            []string{"basic_transcription"},
	},
	PlanStudent: {
		Plan:                PlanStudent,
		MaxMinutesPerMonth:  1200,
		MaxSessionsPerMonth: Unlimited,
		MaxFileSizeMB:       200,
		MaxExportsPerMonth:  20,
		MaxConcurrentJobs:   2,
		RetentionDays:       90,
		ExportFormats:       []string{"json", "txt", "vtt", "srt"},
		Features:            []string{"basic_transcription", "speaker_diarization", "export_formats"},
	},
	PlanPro: {
		Plan:                PlanPro,
		MaxMinutesPerMonth:  1200,
		MaxSessionsPerMonth: Unlimited,
		MaxFileSizeMB:       200,
		MaxExportsPerMonth:  60,
		MaxConcurrentJobs:   3,
		RetentionDays:       180,
		ExportFormats:       []string{"json", "txt", "vtt", "srt"},
		Features:            []string{"basic_transcription", "speaker_diarization", "export_formats"},
	},
	PlanEnterprise: {
		Plan:                PlanEnterprise,
		MaxMinutesPerMonth:  Unlimited,
		MaxSessionsPerMonth: Unlimited,
		MaxFileSizeMB:       500,
		MaxExportsPerMonth:  Unlimited,
		MaxConcurrentJobs:   10,
		RetentionDays:       365,
		ExportFormats:       []string{"json", "txt", "vtt", "srt", "xlsx"},
		Features:            []string{"basic_transcription", "speaker_diarization", "export_formats", "api_access", "priority_support"},
	},
	PlanCoachingSchool: {
		Plan:                PlanCoachingSchool,
		MaxMinutesPerMonth:  Unlimited,
		MaxSessionsPerMonth: Unlimited,
		MaxFileSizeMB:       500,
		MaxExportsPerMonth:  Unlimited,
		MaxConcurrentJobs:   25,
		RetentionDays:       365,
		ExportFormats:       []string{"json", "txt", "vtt", "srt", "xlsx"},
		Features:            []string{"basic_transcription", "speaker_diarization", "export_formats", "api_access", "priority_support", "multi_coach"},
	},
}

// GetLimits returns the configuration for plan, falling back to FREE for
// an unrecognized value (matches the original's `limits.get(plan,
// limits[FREE])`).
func GetLimits(plan Plan) PlanConfiguration {
	if cfg, ok := defaultConfigurations[plan]; ok {
		return cfg
	}
	return defaultConfigurations[PlanFree]
}

// SupportsExportFormat reports whether format is permitted for plan.
func (c PlanConfiguration) SupportsExportFormat(format string) bool {
	for _, f := range c.ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}
