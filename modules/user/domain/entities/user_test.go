package entities

import (
	"testing"
	"time"
)

func TestRolloverIfNeeded_ResetsOnNewMonth(t *testing.T) {
	u := User{CurrentMonthStart: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)}
	u.UsageMinutesThisMonth = 80
	u.SessionCountThisMonth = 4
	u.ExportsThisMonth = 2

	reset := u.RolloverIfNeeded(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	if !reset {
		t.Fatal("expected rollover to fire crossing into March")
	}
	if u.UsageMinutesThisMonth != 0 || u.SessionCountThisMonth != 0 || u.ExportsThisMonth != 0 {
		t.Errorf("expected all monthly counters reset, got %+v", u)
	}
	if !u.CurrentMonthStart.Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected CurrentMonthStart advanced to March, got %v", u.CurrentMonthStart)
	}
}

func TestRolloverIfNeeded_NoResetWithinSameMonth(t *testing.T) {
	u := User{CurrentMonthStart: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)}
	u.UsageMinutesThisMonth = 50

	reset := u.RolloverIfNeeded(time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC))
	if reset {
		t.Error("expected no rollover within the same month, even at 23:59:59")
	}
	if u.UsageMinutesThisMonth != 50 {
		t.Errorf("expected usage to remain unchanged, got %d", u.UsageMinutesThisMonth)
	}
}

func TestRolloverIfNeeded_ExactBoundaryCreditsNewMonth(t *testing.T) {
	// spec.md §8: "at 00:00:00 of the first credits the new month and
	// resets counters exactly once."
	u := User{CurrentMonthStart: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)}
	u.UsageMinutesThisMonth = 50

	firstReset := u.RolloverIfNeeded(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	if !firstReset {
		t.Fatal("expected rollover exactly at the new month's first instant")
	}
	secondReset := u.RolloverIfNeeded(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	if secondReset {
		t.Error("expected rollover to fire exactly once for the same boundary")
	}
}

func TestAdvanceUsage_AccumulatesCountersAndCumulativeTotals(t *testing.T) {
	u := User{}
	u.AdvanceUsage(5, 15)
	u.AdvanceUsage(3, 6)

	if u.UsageMinutesThisMonth != 8 {
		t.Errorf("expected UsageMinutesThisMonth=8, got %d", u.UsageMinutesThisMonth)
	}
	if u.SessionCountThisMonth != 2 {
		t.Errorf("expected SessionCountThisMonth=2, got %d", u.SessionCountThisMonth)
	}
	if u.CumulativeMinutes != 8 || u.CumulativeCostCents != 21 {
		t.Errorf("expected cumulative totals 8/21, got %d/%d", u.CumulativeMinutes, u.CumulativeCostCents)
	}
}

func TestNewEmail_NormalisesAndValidates(t *testing.T) {
	e, err := NewEmail("  User@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.String() != "user@example.com" {
		t.Errorf("expected lowercased/trimmed email, got %q", e.String())
	}

	if _, err := NewEmail("not-an-email"); err == nil {
		t.Error("expected an error for a malformed email")
	}
	if _, err := NewEmail(""); err == nil {
		t.Error("expected an error for an empty email")
	}
}
