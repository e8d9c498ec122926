// Package export renders a COMPLETED Session's transcript into one of
// the formats spec.md §4.8 names. Grounded structurally on the
// teacher's modules/transcription/application/services/export_service.go:
// a format switch dispatching to one renderer per format, each
// building its own byte buffer rather than sharing a template engine.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// Format enumerates the export formats spec.md §4.8 supports.
type Format string

const (
	FormatJSON Format = "json"
	FormatVTT  Format = "vtt"
	FormatSRT  Format = "srt"
	FormatTXT  Format = "txt"
	FormatXLSX Format = "xlsx"
)

// localisedLabel returns the export-facing role label. Tabular export
// gets the English "Coach"/"Client" pair; the three text-based formats
// get the Traditional Chinese pair (spec.md §4.8).
func localisedLabel(role entities.Role, tabular bool) string {
	if tabular {
		switch role {
		case entities.RoleCoach:
			return "Coach"
		case entities.RoleClient:
			return "Client"
		default:
			return "Unknown"
		}
	}
	switch role {
	case entities.RoleCoach:
		return "教練"
	case entities.RoleClient:
		return "客戶"
	default:
		return "Unknown"
	}
}

// renderedSegment pairs a TranscriptSegment with its resolved role,
// computed once up front so every renderer shares the same precedence
// evaluation (spec.md §4.8 "SegmentRole preferred, else SessionRole,
// else unknown").
type renderedSegment struct {
	entities.TranscriptSegment
	Role entities.Role
}

// Service renders a Session's transcript to bytes. Exporting never
// mutates segments; it is a pure projection over what C3 already
// persisted (spec.md §4.8 "Exporting does not mutate segments").
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Render produces the exported document for session in the requested
// format. session must be COMPLETED; callers enforce that guard before
// calling Render (mirrors the teacher's ExportTranscription, which
// likewise assumes a terminal transcription state upstream).
func (s *Service) Render(
	session *entities.Session,
	segments []entities.TranscriptSegment,
	sessionRoles map[int]entities.Role,
	segmentRoles map[string]entities.Role,
	format Format,
) ([]byte, string, error) {
	rendered := make([]renderedSegment, len(segments))
	for i, seg := range segments {
		rendered[i] = renderedSegment{
			TranscriptSegment: seg,
			Role:              entities.EffectiveRole(seg.GetID(), seg.SpeakerID, segmentRoles, sessionRoles),
		}
	}

	switch format {
	case FormatJSON:
		b, err := s.renderJSON(session, rendered)
		return b, "application/json", err
	case FormatVTT:
		b, err := s.renderVTT(rendered)
		return b, "text/vtt", err
	case FormatSRT:
		b, err := s.renderSRT(rendered)
		return b, "application/x-subrip", err
	case FormatTXT:
		b, err := s.renderTXT(rendered)
		return b, "text/plain", err
	case FormatXLSX:
		b, err := s.renderXLSX(session, rendered)
		return b, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		return nil, "", domain.NewDomainError(domain.CodeInvalidFormat, "unsupported export format: "+string(format), nil)
	}
}

type jsonSegment struct {
	SegmentID  string  `json:"segment_id"`
	SpeakerID  int     `json:"speaker_id"`
	Start      float64 `json:"start_seconds"`
	End        float64 `json:"end_seconds"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence,omitempty"`
	Role       string  `json:"role"`
}

type jsonExport struct {
	SessionID string        `json:"session_id"`
	Title     string        `json:"title"`
	Language  string        `json:"language"`
	Provider  string        `json:"provider"`
	Segments  []jsonSegment `json:"segments"`
}

func (s *Service) renderJSON(session *entities.Session, segs []renderedSegment) ([]byte, error) {
	out := jsonExport{
		SessionID: session.GetID(),
		Title:     session.Title,
		Language:  session.Language,
		Provider:  string(session.Provider),
		Segments:  make([]jsonSegment, len(segs)),
	}
	for i, seg := range segs {
		out.Segments[i] = jsonSegment{
			SegmentID:  seg.GetID(),
			SpeakerID:  seg.SpeakerID,
			Start:      seg.StartSeconds,
			End:        seg.EndSeconds,
			Content:    seg.Content,
			Confidence: seg.Confidence,
			Role:       string(seg.Role),
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal json: %w", err)
	}
	return data, nil
}

// formatVTTTimestamp renders HH:MM:SS.mmm, the WebVTT convention
// (spec.md §4.8).
func formatVTTTimestamp(seconds float64) string {
	return formatTimestamp(seconds, '.')
}

// formatSRTTimestamp renders HH:MM:SS,mmm, the SRT convention
// (spec.md §4.8).
func formatSRTTimestamp(seconds float64) string {
	return formatTimestamp(seconds, ',')
}

func formatTimestamp(seconds float64, sep rune) string {
	totalMillis := int64(seconds*1000 + 0.5)
	ms := totalMillis % 1000
	totalSeconds := totalMillis / 1000
	s := totalSeconds % 60
	m := (totalSeconds / 60) % 60
	h := totalSeconds / 3600
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, ms)
}

func (s *Service) renderVTT(segs []renderedSegment) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("WEBVTT\n\n")
	for _, seg := range segs {
		buf.WriteString(fmt.Sprintf("%s --> %s\n", formatVTTTimestamp(seg.StartSeconds), formatVTTTimestamp(seg.EndSeconds)))
		buf.WriteString(fmt.Sprintf("<v %s>%s\n\n", localisedLabel(seg.Role, false), seg.Content))
	}
	return buf.Bytes(), nil
}

func (s *Service) renderSRT(segs []renderedSegment) ([]byte, error) {
	var buf bytes.Buffer
	for i, seg := range segs {
		buf.WriteString(fmt.Sprintf("%d\n", i+1))
		buf.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTimestamp(seg.StartSeconds), formatSRTTimestamp(seg.EndSeconds)))
		buf.WriteString(fmt.Sprintf("%s: %s\n\n", localisedLabel(seg.Role, false), seg.Content))
	}
	return buf.Bytes(), nil
}

// renderTXT groups consecutive segments sharing the same effective
// role under one header (spec.md §4.8 "Plain text groups consecutive
// segments with the same effective role under a single role header").
func (s *Service) renderTXT(segs []renderedSegment) ([]byte, error) {
	var buf bytes.Buffer
	var currentRole entities.Role
	started := false
	for _, seg := range segs {
		if !started || seg.Role != currentRole {
			if started {
				buf.WriteString("\n")
			}
			buf.WriteString(fmt.Sprintf("%s:\n", localisedLabel(seg.Role, false)))
			currentRole = seg.Role
			started = true
		}
		buf.WriteString(strings.TrimSpace(seg.Content))
		buf.WriteString(" ")
		if !strings.HasSuffix(buf.String(), "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

func (s *Service) renderXLSX(session *entities.Session, segs []renderedSegment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transcript"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Start", "End", "Speaker", "Role", "Content"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("export: xlsx header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("export: xlsx header value: %w", err)
		}
	}

	for i, seg := range segs {
		row := i + 2
		values := []interface{}{
			formatVTTTimestamp(seg.StartSeconds),
			formatVTTTimestamp(seg.EndSeconds),
			seg.SpeakerID,
			localisedLabel(seg.Role, true),
			seg.Content,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("export: xlsx cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("export: xlsx value: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
