package services

import "context"

// Provider names resolvable at dispatch time (spec.md §4.2).
const (
	ProviderGoogle     = "google"
	ProviderAssemblyAI = "assemblyai"
)

// JobSpec is the input to a provider dispatch: an audio blob URI,
// language tag, and diarization hint (spec.md §4.2).
type JobSpec struct {
	SessionID  string
	BlobURI    string
	Language   string
	Diarize    bool
}

// Segment is the adapter's normalized output unit, independent of the
// domain entity so the adapter package carries no dependency on
// modules/session/domain/entities.
type Segment struct {
	SpeakerID     int
	StartSeconds  float64
	EndSeconds    float64
	Content       string
	Confidence    float64
	HasConfidence bool
}

// Result is the normalized outcome of a completed job (spec.md §4.2):
// segments plus audio duration and provider metadata.
type Result struct {
	Segments       []Segment
	DurationSeconds int
	SpeakerCount   int
	MeanConfidence float64
	ProviderJobID  string
}

// JobStatus is the adapter-reported state of an in-flight provider job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobDone      JobStatus = "done"
	JobFailed    JobStatus = "failed"
)

// Poll is one provider poll outcome.
type Poll struct {
	Status         JobStatus
	ProgressHint   int // -1 if provider exposes no native progress
	Err            error
	Result         *Result
}

// Adapter presents a single capability set over a heterogeneous STT
// back end (spec.md §4.2): {start_job, poll_job, fetch_result,
// cancel_job}. The adapter is stateless; retry is handled by the
// orchestrator and worker runtime. Grounded on the teacher's
// AudioProcessor interface shape (seedwork-style narrow port), reduced
// from the teacher's chunked real-time contract to the batch
// start/poll/fetch/cancel contract spec.md actually describes.
type Adapter interface {
	// StartJob submits audio for transcription and returns a
	// provider-native job id used for subsequent polls.
	StartJob(ctx context.Context, job JobSpec) (providerJobID string, err error)

	// PollJob returns the current state of a previously started job.
	PollJob(ctx context.Context, providerJobID string) (Poll, error)

	// FetchResult retrieves the normalized result of a job reported
	// done by PollJob. Calling it before JobDone is an error.
	FetchResult(ctx context.Context, providerJobID string) (Result, error)

	// CancelJob best-effort cancels an in-flight provider job.
	CancelJob(ctx context.Context, providerJobID string) error

	// SupportsLanguageAuto reports whether this back end can detect
	// language itself; if false and the Session requests "auto", the
	// orchestrator fails with LANG_NOT_SUPPORTED (spec.md §4.2).
	SupportsLanguageAuto() bool

	// Name identifies the back end for Session.Provider stickiness and
	// UsageLog.Provider.
	Name() string
}

// Resolver resolves the "auto" provider preference to a concrete back
// end at dispatch time; the resolution is recorded on the Session for
// idempotent retry (spec.md §4.2, §4.6).
type Resolver interface {
	Resolve(preference string) (Adapter, error)
	ByName(name string) (Adapter, error)
}
