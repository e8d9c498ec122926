package repositories

import (
	"context"
	"time"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
)

// SessionRepository owns reads and writes of Session, TranscriptSegment,
// SessionRole, SegmentRole (spec.md §4.3 "Session store"). Session reads
// (Get, List) and the per-owner aggregates are ownership-scoped; segment
// and role reads are keyed by session id alone, and ListStuckProcessing
// spans all owners. Grounded on the teacher's TranscriptionRepository,
// generalized from a single "meeting" key to an owner-scoped aggregate
// and extended with the compare-and-set and role-overlay operations the
// state machine requires.
type SessionRepository interface {
	Save(ctx context.Context, session *entities.Session) error
	// Get returns the Session scoped to owner; ErrNotFound if it does
	// not exist or belongs to a different owner.
	Get(ctx context.Context, id, owner string) (*entities.Session, error)
	List(ctx context.Context, owner string, status *entities.Status, limit, offset int) ([]*entities.Session, error)
	Update(ctx context.Context, session *entities.Session) error

	// CompareAndSetStatus performs an UPDATE guarded by the current
	// status, returning (true, nil) only if exactly one row was
	// affected (spec.md §4.6 "enforced by a compare-and-set").
	CompareAndSetStatus(ctx context.Context, id string, from, to entities.Status) (bool, error)

	SaveSegments(ctx context.Context, sessionID string, segments []entities.TranscriptSegment) error
	ClearSegments(ctx context.Context, sessionID string) error
	ListSegments(ctx context.Context, sessionID string) ([]entities.TranscriptSegment, error)

	PutSessionRoles(ctx context.Context, sessionID string, roles map[int]entities.Role) error
	PutSegmentRoles(ctx context.Context, sessionID string, roles map[string]entities.Role) error
	GetSessionRoles(ctx context.Context, sessionID string) (map[int]entities.Role, error)
	GetSegmentRoles(ctx context.Context, sessionID string) (map[string]entities.Role, error)

	// CountSessionsSince and SumDurationSecondsSince are the per-owner
	// aggregate queries of spec.md §4.3. The quota evaluator (C4) does
	// not call them; it reads the User's monthly counters.
	CountSessionsSince(ctx context.Context, owner string, since time.Time) (int, error)
	SumDurationSecondsSince(ctx context.Context, owner string, since time.Time) (int64, error)

	// ListStuckProcessing returns Sessions in PROCESSING whose
	// transcription_started_at predates cutoff, for the reaper (spec.md
	// §4.7).
	ListStuckProcessing(ctx context.Context, cutoff time.Time) ([]*entities.Session, error)
}

// ErrNotFound is the sentinel a repository wraps into
// domain.NewDomainError(domain.CodeNotFound, ...) at the call site.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }
