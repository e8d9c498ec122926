package ledger

import "testing"

func TestDurationMinutes(t *testing.T) {
	cases := []struct {
		seconds int64
		want    int
	}{
		{0, 0},
		{1, 1},
		{30, 1},
		{60, 1},
		{61, 2},
		{300, 5},
		{301, 6},
	}
	for _, c := range cases {
		if got := durationMinutes(c.seconds); got != c.want {
			t.Errorf("durationMinutes(%d) = %d, want %d", c.seconds, got, c.want)
		}
	}
}

var testRates = Rates{GoogleCentsPerMinute: 3, AssemblyAICentsPerMinute: 2, Currency: "TWD"}

func TestCalculateCost_ScenarioOneHappyPath(t *testing.T) {
	// spec.md §8 scenario 1: 5 minutes, google, 2 speakers, confidence 0.9.
	got := calculateCost(5, "google", 2, 0.9, testRates)
	if got != 15 {
		t.Errorf("expected 15 cents, got %d", got)
	}
}

func TestCalculateCost_SpeakerSurcharge(t *testing.T) {
	// +10% per speaker beyond 2; here 4 speakers = +20%.
	got := calculateCost(10, "google", 4, 0.9, testRates)
	want := 36 // 10*3 = 30, *1.2 (two extra speakers) = 36
	if got != want {
		t.Errorf("calculateCost with 4 speakers = %d, want %d", got, want)
	}
}

func TestCalculateCost_LowConfidenceSurcharge(t *testing.T) {
	got := calculateCost(10, "assemblyai", 2, 0.5, testRates)
	want := 24 // 10*2=20, *1.2 (low confidence) = 24
	if got != want {
		t.Errorf("calculateCost with low confidence = %d, want %d", got, want)
	}
}

func TestCalculateCost_NoSurchargeAtExactlyTwoSpeakersAndHighConfidence(t *testing.T) {
	got := calculateCost(10, "google", 2, 0.8, testRates)
	if got != 30 {
		t.Errorf("expected no surcharge at the boundary, got %d", got)
	}
}

func TestCalculateCost_ZeroMinutesIsZeroCost(t *testing.T) {
	if got := calculateCost(0, "google", 5, 0.5, testRates); got != 0 {
		t.Errorf("expected zero cost for zero minutes, got %d", got)
	}
}

func TestCentsPerMinute_UnknownProviderFallsBackToAssemblyAI(t *testing.T) {
	if got := testRates.centsPerMinute("unknown"); got != testRates.AssemblyAICentsPerMinute {
		t.Errorf("expected fallback to assemblyai rate, got %d", got)
	}
}
