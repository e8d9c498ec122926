package entities

import (
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// TranscriptSegment is a single contiguous span of diarized speech,
// child of a Session (spec.md §3). Grounded structurally on the
// teacher's TranscriptSegment (transcription.go), re-keyed to Session
// and extended with SpeakerID in place of a raw speaker label.
type TranscriptSegment struct {
	domain.BaseEntity
	SessionID      string  `json:"session_id" gorm:"column:session_id;not null;index"`
	SpeakerID      int     `json:"speaker_id" gorm:"column:speaker_id;not null"`
	StartSeconds   float64 `json:"start_seconds" gorm:"column:start_seconds;not null"`
	EndSeconds     float64 `json:"end_seconds" gorm:"column:end_seconds;not null"`
	Content        string  `json:"content" gorm:"column:content;type:text;not null"`
	Confidence     float64 `json:"confidence,omitempty" gorm:"column:confidence"`
	HasConfidence  bool    `json:"-" gorm:"column:has_confidence"`
	SequenceNumber int     `json:"sequence_number" gorm:"column:sequence_number;not null"`
}

// TableName sets the table name for GORM.
func (TranscriptSegment) TableName() string {
	return "transcript_segments"
}

// NewTranscriptSegment validates and builds one segment; spec.md §3
// invariant: end > start >= 0, content non-empty.
func NewTranscriptSegment(sessionID string, speakerID int, start, end float64, content string, confidence float64, hasConfidence bool, seq int) (TranscriptSegment, error) {
	if end <= start || start < 0 {
		return TranscriptSegment{}, domain.NewDomainError(domain.CodeInvalidFormat, "segment end must be greater than start, start must be >= 0", nil)
	}
	if content == "" {
		return TranscriptSegment{}, domain.NewDomainError(domain.CodeInvalidFormat, "segment content must not be empty", nil)
	}
	seg := TranscriptSegment{
		SessionID:      sessionID,
		SpeakerID:      speakerID,
		StartSeconds:   start,
		EndSeconds:     end,
		Content:        content,
		Confidence:     confidence,
		HasConfidence:  hasConfidence,
		SequenceNumber: seq,
	}
	seg.SetID(domain.GenerateID())
	return seg, nil
}

// Duration returns the segment's length in seconds.
func (s *TranscriptSegment) Duration() float64 {
	return s.EndSeconds - s.StartSeconds
}
