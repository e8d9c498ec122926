package quota

import (
	"testing"
	"time"

	billing "github.com/coachtranscribe/engine/modules/billing/domain"
)

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2026, time.March, 17, 23, 59, 59, 0, time.UTC))
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthStart() = %v, want %v", got, want)
	}
}

func TestEvaluate_CheckMinutes_AdmitsAtExactLimit(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	usage := Usage{UsageMinutesThisMonth: 110, CurrentMonthStart: MonthStart(now)}
	// FREE plan: max_minutes=120. 110 + 10 == 120 -> admit.
	d := Evaluate(ActionCheckMinutes, billing.PlanFree, usage, now, 10, 0)
	if !d.Admit {
		t.Error("expected admission at exactly the monthly limit")
	}
}

func TestEvaluate_CheckMinutes_DeniesOneOverLimit(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	usage := Usage{UsageMinutesThisMonth: 110, CurrentMonthStart: MonthStart(now)}
	d := Evaluate(ActionCheckMinutes, billing.PlanFree, usage, now, 11, 0)
	if d.Admit {
		t.Error("expected denial one minute over the monthly limit")
	}
}

func TestEvaluate_CheckMinutes_UnlimitedPlanAlwaysAdmits(t *testing.T) {
	now := time.Now()
	usage := Usage{UsageMinutesThisMonth: 1_000_000, CurrentMonthStart: MonthStart(now)}
	d := Evaluate(ActionCheckMinutes, billing.PlanEnterprise, usage, now, 1_000, 0)
	if !d.Admit {
		t.Error("expected an unlimited plan to always admit minutes")
	}
}

func TestEvaluate_UploadFile_Boundary(t *testing.T) {
	now := time.Now()
	usage := Usage{CurrentMonthStart: MonthStart(now)}
	// PRO plan: max_file_size_mb=200.
	if d := Evaluate(ActionUploadFile, billing.PlanPro, usage, now, 0, 200); !d.Admit {
		t.Error("expected admission at exactly the file size limit")
	}
	if d := Evaluate(ActionUploadFile, billing.PlanPro, usage, now, 0, 200.01); d.Admit {
		t.Error("expected denial just over the file size limit")
	}
}

func TestEvaluate_ExportTranscript_Boundary(t *testing.T) {
	now := time.Now()
	// FREE plan: max_exports_per_month=5.
	usage := Usage{ExportsThisMonth: 4, CurrentMonthStart: MonthStart(now)}
	if d := Evaluate(ActionExportTranscript, billing.PlanFree, usage, now, 0, 0); !d.Admit {
		t.Error("expected the 5th export this month to be admitted")
	}
	usage.ExportsThisMonth = 5
	if d := Evaluate(ActionExportTranscript, billing.PlanFree, usage, now, 0, 0); d.Admit {
		t.Error("expected the 6th export this month to be denied")
	}
}

func TestEvaluate_CreateSessionAndTranscribe_AlwaysAdmit(t *testing.T) {
	now := time.Now()
	usage := Usage{CurrentMonthStart: MonthStart(now)}
	if d := Evaluate(ActionCreateSession, billing.PlanFree, usage, now, 0, 0); !d.Admit {
		t.Error("expected create_session to always admit (Phase 2: unlimited)")
	}
	if d := Evaluate(ActionTranscribe, billing.PlanFree, usage, now, 0, 0); !d.Admit {
		t.Error("expected transcribe to always admit (Phase 2: unlimited)")
	}
}

func TestEvaluate_MonthRollover_ResetsEffectiveUsage(t *testing.T) {
	// Usage was recorded in February; we're now admitting in March. The
	// stale 119/120 balance must not carry over into the new window.
	staleMonthStart := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	usage := Usage{UsageMinutesThisMonth: 119, CurrentMonthStart: staleMonthStart}

	d := Evaluate(ActionCheckMinutes, billing.PlanFree, usage, now, 100, 0)
	if !d.Admit {
		t.Error("expected rollover to reset effective usage before evaluating the new request")
	}
	if !d.NeedsRollover {
		t.Error("expected NeedsRollover to be signalled so the caller resets counters")
	}
}

func TestEvaluate_NoRolloverWhenSameMonth(t *testing.T) {
	now := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	usage := Usage{UsageMinutesThisMonth: 10, CurrentMonthStart: MonthStart(now)}
	d := Evaluate(ActionCheckMinutes, billing.PlanFree, usage, now, 10, 0)
	if d.NeedsRollover {
		t.Error("expected no rollover signal within the same month")
	}
}
