// Package assemblyai adapts the AssemblyAI REST client to the
// session/domain/services.Adapter contract.
package assemblyai

import (
	"context"
	"fmt"
	"strings"

	"github.com/coachtranscribe/engine/modules/session/domain/services"
	assemblyai "github.com/therealchrisrock/assemblyai-go"
)

// Adapter implements services.Adapter over AssemblyAI's transcript API.
// Grounded on the teacher's AssemblyAIProvider (assemblyai_provider.go):
// same client, same request-building and utterance-conversion logic,
// reshaped from the teacher's session-tracking-map/EndSession flow into
// the stateless start/poll/fetch/cancel contract the orchestrator
// expects — polling now happens in the worker runtime, not inside the
// adapter.
type Adapter struct {
	client *assemblyai.Client
}

// New builds an AssemblyAI-backed adapter.
func New(apiKey string) *Adapter {
	return &Adapter{client: assemblyai.NewClient(apiKey)}
}

func (a *Adapter) Name() string { return services.ProviderAssemblyAI }

// SupportsLanguageAuto is false: AssemblyAI requires an explicit
// language_code unless language_detection is requested, which this
// adapter does not enable.
func (a *Adapter) SupportsLanguageAuto() bool { return false }

// StartJob submits the blob URI directly as audio_url — the caller is
// expected to have handed out a publicly fetchable (signed) URL via the
// blob gateway, so no re-upload through AssemblyAI's /upload endpoint is
// necessary.
func (a *Adapter) StartJob(ctx context.Context, job services.JobSpec) (string, error) {
	request := &assemblyai.TranscriptRequest{
		AudioURL:      job.BlobURI,
		SpeakerLabels: assemblyai.Bool(job.Diarize),
		Punctuate:     assemblyai.Bool(true),
		FormatText:    assemblyai.Bool(true),
	}
	if job.Language != "" && job.Language != "auto" {
		request.LanguageCode = &job.Language
	}

	transcript, err := a.client.CreateTranscript(ctx, request)
	if err != nil {
		return "", fmt.Errorf("assemblyai: create transcript: %w", err)
	}
	return transcript.ID, nil
}

func (a *Adapter) PollJob(ctx context.Context, providerJobID string) (services.Poll, error) {
	transcript, err := a.client.GetTranscript(ctx, providerJobID)
	if err != nil {
		return services.Poll{}, fmt.Errorf("assemblyai: get transcript: %w", err)
	}

	switch transcript.Status {
	case assemblyai.StatusCompleted:
		result := convertResult(transcript)
		return services.Poll{Status: services.JobDone, ProgressHint: 100, Result: &result}, nil
	case assemblyai.StatusError:
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return services.Poll{Status: services.JobFailed, Err: fmt.Errorf("assemblyai: %s", msg)}, nil
	case assemblyai.StatusQueued:
		return services.Poll{Status: services.JobQueued, ProgressHint: -1}, nil
	default:
		return services.Poll{Status: services.JobRunning, ProgressHint: -1}, nil
	}
}

func (a *Adapter) FetchResult(ctx context.Context, providerJobID string) (services.Result, error) {
	transcript, err := a.client.GetTranscript(ctx, providerJobID)
	if err != nil {
		return services.Result{}, fmt.Errorf("assemblyai: get transcript: %w", err)
	}
	if transcript.Status != assemblyai.StatusCompleted {
		return services.Result{}, fmt.Errorf("assemblyai: transcript %s is not complete (status %s)", providerJobID, transcript.Status)
	}
	return convertResult(transcript), nil
}

// CancelJob deletes the transcript, AssemblyAI's closest equivalent to
// a cancel (there is no in-flight stop endpoint).
func (a *Adapter) CancelJob(ctx context.Context, providerJobID string) error {
	return a.client.DeleteTranscript(ctx, providerJobID)
}

func convertResult(transcript *assemblyai.Transcript) services.Result {
	segments := make([]services.Segment, 0, len(transcript.Utterances))
	speakers := map[string]int{}
	nextSpeakerID := 1
	var confSum float64

	resolveSpeaker := func(label string) int {
		label = normalizeSpeakerLabel(label)
		if id, ok := speakers[label]; ok {
			return id
		}
		id := nextSpeakerID
		speakers[label] = id
		nextSpeakerID++
		return id
	}

	if len(transcript.Utterances) > 0 {
		for _, u := range transcript.Utterances {
			if strings.TrimSpace(u.Text) == "" {
				continue
			}
			seg := services.Segment{
				SpeakerID:     resolveSpeaker(u.Speaker),
				StartSeconds:  float64(u.Start) / 1000.0,
				EndSeconds:    float64(u.End) / 1000.0,
				Content:       u.Text,
				Confidence:    u.Confidence,
				HasConfidence: true,
			}
			confSum += u.Confidence
			segments = append(segments, seg)
		}
	} else if transcript.Text != nil {
		confidence := 0.0
		hasConf := false
		if transcript.Confidence != nil {
			confidence = *transcript.Confidence
			hasConf = true
		}
		duration := 0.0
		if transcript.AudioDuration != nil {
			duration = *transcript.AudioDuration
		}
		segments = append(segments, services.Segment{
			SpeakerID:     1,
			StartSeconds:  0,
			EndSeconds:    duration,
			Content:       *transcript.Text,
			Confidence:    confidence,
			HasConfidence: hasConf,
		})
		if hasConf {
			confSum = confidence
		}
	}

	meanConfidence := 0.0
	if len(segments) > 0 {
		meanConfidence = confSum / float64(len(segments))
	}

	duration := 0
	if transcript.AudioDuration != nil {
		duration = int(*transcript.AudioDuration)
	}

	return services.Result{
		Segments:        segments,
		DurationSeconds: duration,
		SpeakerCount:    len(speakers),
		MeanConfidence:  meanConfidence,
		ProviderJobID:   transcript.ID,
	}
}

// normalizeSpeakerLabel mirrors the teacher's AssemblyAIProvider
// normalization: collapse the various "unknown" spellings, otherwise
// preserve AssemblyAI's own speaker differentiation labels.
func normalizeSpeakerLabel(speaker string) string {
	speaker = strings.TrimSpace(speaker)
	if speaker == "" || speaker == "speaker_unknown" || speaker == "unknown" {
		return "Speaker Unknown"
	}
	return speaker
}
