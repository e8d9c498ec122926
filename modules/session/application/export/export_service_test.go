package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
)

func buildSession(t *testing.T) *entities.Session {
	t.Helper()
	s := entities.NewSession("owner-1", "Weekly check-in", "en-US", entities.ProviderGoogle)
	return &s
}

func buildSegments(t *testing.T) []entities.TranscriptSegment {
	t.Helper()
	s1, err := entities.NewTranscriptSegment("sess-1", 1, 0, 5, "Hello there.", 0.95, true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := entities.NewTranscriptSegment("sess-1", 1, 5, 10, "How are you?", 0.9, true, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return []entities.TranscriptSegment{s1, s2}
}

// TestRenderJSON_RolePrecedence exercises spec.md §8 scenario 6: both
// segments are from speaker 1; SessionRole maps speaker 1 to coach, but
// a SegmentRole override on the second segment takes precedence.
func TestRenderJSON_RolePrecedence(t *testing.T) {
	session := buildSession(t)
	segs := buildSegments(t)
	sessionRoles := map[int]entities.Role{1: entities.RoleCoach}
	segmentRoles := map[string]entities.Role{segs[1].GetID(): entities.RoleClient}

	svc := NewService()
	data, contentType, err := svc.Render(session, segs, sessionRoles, segmentRoles, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("expected application/json content type, got %s", contentType)
	}

	var out jsonExport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to unmarshal export: %v", err)
	}
	if len(out.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(out.Segments))
	}
	if out.Segments[0].Role != string(entities.RoleCoach) {
		t.Errorf("expected first segment to fall back to SessionRole coach, got %s", out.Segments[0].Role)
	}
	if out.Segments[1].Role != string(entities.RoleClient) {
		t.Errorf("expected second segment's SegmentRole override to win, got %s", out.Segments[1].Role)
	}
}

func TestFormatVTTTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{61.5, "00:01:01.500"},
		{3661.25, "01:01:01.250"},
	}
	for _, c := range cases {
		if got := formatVTTTimestamp(c.seconds); got != c.want {
			t.Errorf("formatVTTTimestamp(%v) = %s, want %s", c.seconds, got, c.want)
		}
	}
}

func TestFormatSRTTimestamp_UsesComma(t *testing.T) {
	got := formatSRTTimestamp(61.5)
	want := "00:01:01,500"
	if got != want {
		t.Errorf("formatSRTTimestamp() = %s, want %s", got, want)
	}
}

func TestRenderVTT_ContainsHeaderAndTimestamps(t *testing.T) {
	session := buildSession(t)
	segs := buildSegments(t)
	svc := NewService()
	data, contentType, err := svc.Render(session, segs, nil, nil, FormatVTT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "text/vtt" {
		t.Errorf("expected text/vtt content type, got %s", contentType)
	}
	out := string(data)
	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Error("expected VTT output to start with the WEBVTT header")
	}
	if !strings.Contains(out, "00:00:00.000 --> 00:00:05.000") {
		t.Error("expected the first cue's timestamp range")
	}
	if !strings.Contains(out, "Unknown") {
		t.Error("expected segments with no role override to render as Unknown")
	}
}

func TestRenderTXT_GroupsConsecutiveSameRoleSegments(t *testing.T) {
	session := buildSession(t)
	segs := buildSegments(t)
	sessionRoles := map[int]entities.Role{1: entities.RoleCoach}
	svc := NewService()
	data, _, err := svc.Render(session, segs, sessionRoles, nil, FormatTXT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)
	// Both segments share speaker 1 -> coach, so there should be exactly
	// one role header, not one per segment.
	if strings.Count(out, "教練:") != 1 {
		t.Errorf("expected exactly one grouped role header, got %d in:\n%s", strings.Count(out, "教練:"), out)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	session := buildSession(t)
	segs := buildSegments(t)
	svc := NewService()
	if _, _, err := svc.Render(session, segs, nil, nil, Format("yaml")); err == nil {
		t.Error("expected an error for an unsupported export format")
	}
}
