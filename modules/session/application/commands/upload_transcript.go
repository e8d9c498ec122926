package commands

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/events"
)

// UploadTranscriptCommand accepts a manually-produced .vtt or .srt
// transcript and completes the Session without invoking the STT
// adapter (spec.md §6 "UploadTranscript"). Completion goes through
// Session.Complete, so only a Session in PROCESSING is moved to
// COMPLETED; from UPLOADING, PENDING, FAILED or CANCELLED the upload
// is rejected, and on an already-COMPLETED Session the segments are
// replaced while its duration, speaker count and confidence stay as
// they were. Parsing algorithm
// supplemented from original_source's TranscriptParsingService
// (transcript_upload_use_case.py): timestamp regex per format,
// "Speaker: text" / VTT "<v Speaker>text</v>" prefix heuristics.
type UploadTranscriptCommand struct {
	SessionID string
	OwnerID   string
	Filename  string
	Content   string
}

type UploadTranscriptHandler struct {
	sessions domainrepo.SessionRepository
	eventBus events.EventBus
}

func NewUploadTranscriptHandler(sessions domainrepo.SessionRepository, eventBus events.EventBus) *UploadTranscriptHandler {
	return &UploadTranscriptHandler{sessions: sessions, eventBus: eventBus}
}

func (h *UploadTranscriptHandler) Handle(ctx context.Context, cmd UploadTranscriptCommand) error {
	session, err := h.sessions.Get(ctx, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return translateRepoErr(err)
	}

	ext := strings.ToLower(cmd.Filename[strings.LastIndex(cmd.Filename, ".")+1:])
	var parsed []parsedLine
	switch ext {
	case "vtt":
		parsed, err = parseVTT(cmd.Content)
	case "srt":
		parsed, err = parseSRT(cmd.Content)
	default:
		return domain.NewDomainError(domain.CodeInvalidFormat, "only .vtt and .srt transcript uploads are supported", nil)
	}
	if err != nil {
		return domain.NewDomainError(domain.CodeInvalidFormat, "failed to parse transcript file", err)
	}
	if len(parsed) == 0 {
		return domain.NewDomainError(domain.CodeInvalidFormat, "no valid segments found in the transcript file", nil)
	}

	speakerIDs := map[string]int{}
	nextSpeakerID := 1
	segments := make([]entities.TranscriptSegment, 0, len(parsed))
	var maxEnd float64
	for i, p := range parsed {
		id, ok := speakerIDs[p.speakerKey]
		if !ok {
			id = nextSpeakerID
			speakerIDs[p.speakerKey] = id
			nextSpeakerID++
		}
		seg, err := entities.NewTranscriptSegment(session.GetID(), id, p.start, p.end, p.content, 1.0, true, i)
		if err != nil {
			return err
		}
		segments = append(segments, seg)
		if p.end > maxEnd {
			maxEnd = p.end
		}
	}

	now := time.Now()
	if err := session.Complete(now, int(maxEnd), len(speakerIDs), 1.0); err != nil {
		return err
	}
	if err := h.sessions.ClearSegments(ctx, session.GetID()); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to clear prior segments", err)
	}
	if err := h.sessions.SaveSegments(ctx, session.GetID(), segments); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to persist uploaded transcript segments", err)
	}
	if err := h.sessions.Update(ctx, session); err != nil {
		return domain.NewDomainError(domain.CodeStateConflict, "failed to persist completed session", err)
	}

	// Manual uploads intentionally do not touch the ledger: spec.md §3
	// reserves billable UsageLog writes for provider-dispatched runs;
	// a MANUAL kind exists in the taxonomy for operators to log
	// out-of-band if their plan requires it, which this command does
	// not do on the caller's behalf.
	h.eventBus.Publish("session.completed", &SessionCompletedEvent{
		SessionID:   session.GetID(),
		OwnerID:     cmd.OwnerID,
		CompletedAt: now,
	})
	return nil
}

type parsedLine struct {
	start, end float64
	content    string
	speakerKey string
}

var vttTimestamp = regexp.MustCompile(`(\d{1,2}:\d{2}:\d{2}[.,]\d{3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}[.,]\d{3})`)
var vttSpeakerTag = regexp.MustCompile(`^<v\s+([^>]+)>\s*(.*?)(?:</v>)?$`)
var prefixSpeaker = regexp.MustCompile(`^([^:]+):\s*(.+)$`)

func parseVTT(content string) ([]parsedLine, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	var out []parsedLine
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || line == "WEBVTT" || strings.HasPrefix(line, "NOTE") {
			continue
		}
		if m := vttTimestamp.FindStringSubmatch(line); m != nil {
			start, err := parseTimestamp(m[1])
			if err != nil {
				return nil, err
			}
			end, err := parseTimestamp(m[2])
			if err != nil {
				return nil, err
			}
			i++
			if i >= len(lines) {
				break
			}
			out = append(out, parseContentLine(strings.TrimSpace(lines[i]), start, end))
		}
	}
	return out, nil
}

var srtBlockSplit = regexp.MustCompile(`\n\s*\n`)

func parseSRT(content string) ([]parsedLine, error) {
	blocks := srtBlockSplit.Split(strings.TrimSpace(content), -1)
	var out []parsedLine
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}
		m := vttTimestamp.FindStringSubmatch(strings.TrimSpace(lines[1]))
		if m == nil {
			continue
		}
		start, err := parseTimestamp(m[1])
		if err != nil {
			return nil, err
		}
		end, err := parseTimestamp(m[2])
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(strings.Join(lines[2:], " "))
		out = append(out, parseContentLine(text, start, end))
	}
	return out, nil
}

// parseContentLine extracts a speaker key and strips its prefix,
// matching the VTT "<v Name>" and plain "Name: text" conventions the
// original parser recognizes (speaker_role_mapping-driven role
// assignment is not carried here: this repo's SessionRole/SegmentRole
// overlay is applied separately via PutSpeakerRoles after upload).
func parseContentLine(line string, start, end float64) parsedLine {
	if m := vttSpeakerTag.FindStringSubmatch(line); m != nil {
		return parsedLine{start: start, end: end, content: strings.TrimSpace(m[2]), speakerKey: normalizeSpeakerKey(m[1])}
	}
	if m := prefixSpeaker.FindStringSubmatch(line); m != nil {
		return parsedLine{start: start, end: end, content: strings.TrimSpace(m[2]), speakerKey: normalizeSpeakerKey(m[1])}
	}
	return parsedLine{start: start, end: end, content: line, speakerKey: "speaker_unknown"}
}

var nonWordChar = regexp.MustCompile(`[^\w_]`)

func normalizeSpeakerKey(name string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	normalized = nonWordChar.ReplaceAllString(normalized, "")
	return "speaker_" + normalized
}

func parseTimestamp(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
