package entities

import (
	"testing"
	"time"

	"github.com/coachtranscribe/engine/seedwork/domain"
)

func TestNewSession_StartsUploading(t *testing.T) {
	s := NewSession("owner-1", "Weekly check-in", "en-US", ProviderAuto)
	if s.Status != StatusUploading {
		t.Errorf("expected StatusUploading, got %s", s.Status)
	}
	if s.GetID() == "" {
		t.Error("expected a generated ID")
	}
}

func TestSetAudio_UploadingToPending(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	if err := s.SetAudio("audio-uploads/owner-1/x.mp3", "x.mp3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusPending {
		t.Errorf("expected StatusPending, got %s", s.Status)
	}
	if s.BlobPath == "" || s.AudioFilename == "" {
		t.Error("expected blob path and filename to be persisted")
	}
}

func TestSetAudio_RejectsFromProcessing(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusProcessing
	err := s.SetAudio("p", "f.mp3")
	if domain.CodeOf(err) != domain.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestStartTranscription_RequiresAudio(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusPending // audio fields still empty
	err := s.StartTranscription(time.Now(), ProviderGoogle)
	if domain.CodeOf(err) != domain.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT when audio missing, got %v", err)
	}
}

func TestStartTranscription_ResolvesProviderAndCapturesStart(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	_ = s.SetAudio("p", "f.mp3")
	now := time.Now()
	if err := s.StartTranscription(now, ProviderAssemblyAI); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusProcessing {
		t.Errorf("expected StatusProcessing, got %s", s.Status)
	}
	if s.Provider != ProviderAssemblyAI {
		t.Errorf("expected resolved provider to stick, got %s", s.Provider)
	}
	if s.TranscriptionStartedAt == nil || !s.TranscriptionStartedAt.Equal(now) {
		t.Error("expected TranscriptionStartedAt to be captured")
	}
}

func TestUpdateProgress_MonotonicWithinRun(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusProcessing
	s.ProgressPercentage = 40

	if ok := s.UpdateProgress(55); !ok || s.ProgressPercentage != 55 {
		t.Errorf("expected progress to advance to 55, got %d (ok=%v)", s.ProgressPercentage, ok)
	}
	if ok := s.UpdateProgress(30); ok || s.ProgressPercentage != 55 {
		t.Errorf("expected a decreasing update to be rejected, got %d (ok=%v)", s.ProgressPercentage, ok)
	}
	if ok := s.UpdateProgress(101); ok {
		t.Error("expected out-of-range progress to be rejected")
	}
}

func TestUpdateProgress_DroppedAfterTerminal(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusCompleted
	s.ProgressPercentage = 100
	if ok := s.UpdateProgress(50); ok {
		t.Error("expected progress update on a terminal session to be dropped")
	}
	if s.ProgressPercentage != 100 {
		t.Errorf("expected progress to remain 100, got %d", s.ProgressPercentage)
	}
}

func TestComplete_SetsTerminalFields(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusProcessing
	now := time.Now()
	if err := s.Complete(now, 300, 2, 0.9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusCompleted || s.ProgressPercentage != 100 || s.DurationSeconds != 300 {
		t.Errorf("unexpected post-completion state: %+v", s)
	}
}

func TestComplete_SecondCallIsNoOp(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusProcessing
	now := time.Now()
	if err := s.Complete(now, 300, 2, 0.9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Complete(now, 999, 9, 0.1); err != nil {
		t.Fatalf("expected idempotent no-op, got error: %v", err)
	}
	if s.DurationSeconds != 300 {
		t.Errorf("expected second complete() to leave fields untouched, got duration=%d", s.DurationSeconds)
	}
}

func TestComplete_RejectsFromNonProcessing(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusPending
	err := s.Complete(time.Now(), 10, 1, 1.0)
	if domain.CodeOf(err) != domain.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestFail_RequiresMessage(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusProcessing
	if err := s.Fail(""); domain.CodeOf(err) != domain.CodeInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT for empty message, got %v", err)
	}
	if err := s.Fail("UPSTREAM_FAILED"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusFailed || s.ErrorMessage != "UPSTREAM_FAILED" {
		t.Errorf("unexpected failed state: %+v", s)
	}
}

func TestCancel_OnlyFromProcessingOrPending(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusUploading
	if err := s.Cancel(); domain.CodeOf(err) != domain.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT cancelling from UPLOADING, got %v", err)
	}
	s.Status = StatusPending
	if err := s.Cancel(); err != nil {
		t.Fatalf("unexpected error cancelling from PENDING: %v", err)
	}
	if s.Status != StatusCancelled {
		t.Errorf("expected StatusCancelled, got %s", s.Status)
	}
}

func TestRetryTranscription_ClearsPriorRunAndIncrementsCount(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusFailed
	s.ErrorMessage = "UPSTREAM_FAILED"
	s.TranscriptionJobID = "job-1"
	s.ProviderTranscriptID = "ptx-1"
	s.ProgressPercentage = 42

	if err := s.RetryTranscription(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusPending || s.ErrorMessage != "" || s.TranscriptionJobID != "" ||
		s.ProviderTranscriptID != "" || s.ProgressPercentage != 0 || s.RetryCount != 1 {
		t.Errorf("unexpected state after retry: %+v", s)
	}
}

func TestRetryTranscription_RejectsFromNonFailed(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	s.Status = StatusCompleted
	if err := s.RetryTranscription(); domain.CodeOf(err) != domain.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestIsFirstRun(t *testing.T) {
	s := NewSession("owner-1", "t", "en-US", ProviderAuto)
	if !s.IsFirstRun() {
		t.Error("expected a fresh session to be its first run")
	}
	now := time.Now()
	s.TranscriptionCompletedAt = &now
	if s.IsFirstRun() {
		t.Error("expected a previously-completed session not to be first run")
	}
}

func TestEstimateProgress(t *testing.T) {
	cases := []struct {
		elapsed      time.Duration
		audioSeconds int
		want         int
	}{
		{0, 100, 0},
		{125 * time.Second, 100, 50},
		{1000 * time.Second, 100, 99},
		{10 * time.Second, 0, 0},
	}
	for _, c := range cases {
		got := EstimateProgress(c.elapsed, c.audioSeconds)
		if got != c.want {
			t.Errorf("EstimateProgress(%v, %d) = %d, want %d", c.elapsed, c.audioSeconds, got, c.want)
		}
	}
}

func TestIsSupportedLanguage(t *testing.T) {
	if !IsSupportedLanguage("auto") {
		t.Error("expected \"auto\" to be supported")
	}
	if !IsSupportedLanguage("ja-JP") {
		t.Error("expected \"ja-JP\" to be supported")
	}
	if IsSupportedLanguage("fr-FR") {
		t.Error("expected an out-of-set language tag to be rejected")
	}
}
