package entities

import (
	"testing"

	"github.com/coachtranscribe/engine/seedwork/domain"
)

func TestNewTranscriptSegment_ValidatesOrdering(t *testing.T) {
	if _, err := NewTranscriptSegment("s1", 1, 5, 5, "hi", 0.9, true, 0); domain.CodeOf(err) != domain.CodeInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT for end == start, got %v", err)
	}
	if _, err := NewTranscriptSegment("s1", 1, 5, 2, "hi", 0.9, true, 0); domain.CodeOf(err) != domain.CodeInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT for end < start, got %v", err)
	}
	if _, err := NewTranscriptSegment("s1", 1, -1, 2, "hi", 0.9, true, 0); domain.CodeOf(err) != domain.CodeInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT for negative start, got %v", err)
	}
}

func TestNewTranscriptSegment_RejectsEmptyContent(t *testing.T) {
	if _, err := NewTranscriptSegment("s1", 1, 0, 2, "", 0.9, true, 0); domain.CodeOf(err) != domain.CodeInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT for empty content, got %v", err)
	}
}

func TestNewTranscriptSegment_Duration(t *testing.T) {
	seg, err := NewTranscriptSegment("s1", 1, 2.5, 7.25, "hello", 0.8, true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := seg.Duration(), 4.75; got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
	if seg.GetID() == "" {
		t.Error("expected a generated ID")
	}
}

func TestEffectiveRole_Precedence(t *testing.T) {
	sessionRoles := map[int]Role{1: RoleCoach}
	segmentRoles := map[string]Role{"seg-2": RoleClient}

	if got := EffectiveRole("seg-1", 1, segmentRoles, sessionRoles); got != RoleCoach {
		t.Errorf("expected SessionRole fallback to produce coach, got %s", got)
	}
	if got := EffectiveRole("seg-2", 1, segmentRoles, sessionRoles); got != RoleClient {
		t.Errorf("expected SegmentRole to take precedence over SessionRole, got %s", got)
	}
	if got := EffectiveRole("seg-3", 2, segmentRoles, sessionRoles); got != RoleUnknown {
		t.Errorf("expected unknown role with no override, got %s", got)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("coach"); err != nil || r != RoleCoach {
		t.Errorf("expected coach, got %s, err=%v", r, err)
	}
	if _, err := ParseRole("manager"); domain.CodeOf(err) != domain.CodeInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT for unrecognized role, got %v", err)
	}
}
