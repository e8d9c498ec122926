// Package google adapts Google Cloud Speech-to-Text's long-running batch
// recognize API to the session/domain/services.Adapter contract.
package google

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/coachtranscribe/engine/modules/session/domain/services"
)

// Config holds Google STT configuration. Grounded on the teacher pack's
// sinhayogesh-ai-speech-ingress-service Google adapter Config struct,
// trimmed to the batch fields this adapter needs (sample rate/encoding
// are taken from the blob's container format rather than configured
// per-call, since spec.md §4.2 passes only language + diarization hint).
type Config struct {
	SampleRateHz  int
	AudioEncoding speechpb.RecognitionConfig_AudioEncoding
}

// DefaultConfig mirrors common coaching-session audio: compressed mono
// voice recordings, resolved at adapter construction.
func DefaultConfig() Config {
	return Config{
		SampleRateHz:  16000,
		AudioEncoding: speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
	}
}

// Adapter implements services.Adapter using Google Cloud Speech's
// LongRunningRecognize, the batch counterpart of the teacher pack's
// streaming adapter. Unlike the streaming shape (Start/SendAudio/Restart
// driven by a live mic feed), a coaching-session recording is an
// already-uploaded file, so the adapter submits one long-running
// operation per job and the worker polls its operation name.
type Adapter struct {
	client *speech.Client
	config Config
}

// New builds a Google Speech adapter. Requires
// GOOGLE_APPLICATION_CREDENTIALS to be set in the process environment.
func New(ctx context.Context) (*Adapter, error) {
	return NewWithConfig(ctx, DefaultConfig())
}

func NewWithConfig(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google speech: new client: %w", err)
	}
	return &Adapter{client: c, config: cfg}, nil
}

func (a *Adapter) Name() string { return services.ProviderGoogle }

// SupportsLanguageAuto is false: Google's recognition config requires an
// explicit BCP-47 language code; it has no "auto" sentinel.
func (a *Adapter) SupportsLanguageAuto() bool { return false }

func (a *Adapter) StartJob(ctx context.Context, job services.JobSpec) (string, error) {
	if job.Language == "" || job.Language == "auto" {
		return "", fmt.Errorf("google speech: language must be explicit, got %q", job.Language)
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        a.config.AudioEncoding,
			SampleRateHertz: int32(a.config.SampleRateHz),
			LanguageCode:    job.Language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: job.BlobURI},
		},
	}
	if job.Diarize {
		req.Config.DiarizationConfig = &speechpb.SpeakerDiarizationConfig{
			EnableSpeakerDiarization: true,
			MinSpeakerCount:          1,
			MaxSpeakerCount:          6,
		}
	}

	op, err := a.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("google speech: long running recognize: %w", err)
	}
	return op.Name(), nil
}

// PollJob pings the operation without blocking for completion. The
// generated operation wrapper's Poll returns a nil response while the
// operation is still running and a non-nil response once it is done.
func (a *Adapter) PollJob(ctx context.Context, providerJobID string) (services.Poll, error) {
	op := a.client.LongRunningRecognizeOperation(providerJobID)
	resp, err := op.Poll(ctx)
	if err != nil {
		return services.Poll{Status: services.JobFailed, Err: fmt.Errorf("google speech: poll: %w", err)}, nil
	}
	if !op.Done() {
		return services.Poll{Status: services.JobRunning, ProgressHint: -1}, nil
	}
	result := convertResponse(resp)
	return services.Poll{Status: services.JobDone, ProgressHint: 100, Result: &result}, nil
}

func (a *Adapter) FetchResult(ctx context.Context, providerJobID string) (services.Result, error) {
	op := a.client.LongRunningRecognizeOperation(providerJobID)
	resp, err := op.Wait(ctx)
	if err != nil {
		return services.Result{}, fmt.Errorf("google speech: wait: %w", err)
	}
	return convertResponse(resp), nil
}

// CancelJob has no server-side effect: Google's long-running operations
// API has no batch recognize cancel endpoint reachable from this client;
// the worker simply stops polling, matching spec.md §4.7's "best-effort".
func (a *Adapter) CancelJob(ctx context.Context, providerJobID string) error {
	return nil
}

func convertResponse(resp *speechpb.LongRunningRecognizeResponse) services.Result {
	var segments []services.Segment
	var confSum float64
	var confCount int
	speakerSet := map[int32]bool{}
	var maxEnd float64

	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		if len(alt.Words) == 0 {
			continue
		}

		// Group consecutive words by speaker tag into one segment,
		// mirroring how the AssemblyAI adapter groups by utterance.
		var cur *services.Segment
		for _, w := range alt.Words {
			speaker := int(w.SpeakerTag)
			if speaker == 0 {
				speaker = 1
			}
			start := w.StartTime.AsDuration().Seconds()
			end := w.EndTime.AsDuration().Seconds()
			if end > maxEnd {
				maxEnd = end
			}
			speakerSet[int32(speaker)] = true

			if cur == nil || cur.SpeakerID != speaker {
				if cur != nil {
					segments = append(segments, *cur)
				}
				cur = &services.Segment{
					SpeakerID:     speaker,
					StartSeconds:  start,
					EndSeconds:    end,
					Content:       w.Word,
					Confidence:    alt.Confidence,
					HasConfidence: true,
				}
			} else {
				cur.Content += " " + w.Word
				cur.EndSeconds = end
			}
		}
		if cur != nil {
			segments = append(segments, *cur)
		}
		confSum += alt.Confidence
		confCount++
	}

	meanConfidence := 0.0
	if confCount > 0 {
		meanConfidence = confSum / float64(confCount)
	}

	return services.Result{
		Segments:        segments,
		DurationSeconds: int(maxEnd),
		SpeakerCount:    len(speakerSet),
		MeanConfidence:  meanConfidence,
	}
}
