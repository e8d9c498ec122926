// Package repositories declares the narrow ports the billing module's
// use cases depend on (spec.md §4.5).
package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	billing "github.com/coachtranscribe/engine/modules/billing/domain"
	userentities "github.com/coachtranscribe/engine/modules/user/domain/entities"
)

// UserLedgerPort is the narrow slice of UserRepository the ledger needs:
// a row-locked read and an update, both inside the caller's transaction.
type UserLedgerPort interface {
	// LockForUpdate reads the User row with a row-level lock held until
	// the enclosing transaction commits (spec.md §5 "Concurrent
	// completions for the same user take a row-level lock on the User
	// during the ledger transaction"). The lock is only as good as the
	// transaction it's read on — callers MUST invoke this through
	// WithTx, never on the port's own ambient connection, or the lock
	// is released the instant the read statement commits.
	LockForUpdate(ctx context.Context, ownerID string) (*userentities.User, error)
	Update(ctx context.Context, user *userentities.User) error
	// WithTx returns a copy of the port bound to tx, so its reads and
	// writes join the caller's transaction instead of auto-committing
	// on a separate connection.
	WithTx(tx *gorm.DB) UserLedgerPort
}

// UsageLogRepository appends UsageLog rows and answers the queries the
// ledger and quota evaluator need.
type UsageLogRepository interface {
	Create(ctx context.Context, log *billing.UsageLog) error
	// ExistsForSessionAndType backs spec.md §4.5's uniqueness invariant
	// so the caller can treat a duplicate write as a no-op.
	ExistsForSessionAndType(ctx context.Context, sessionID string, kind billing.TranscriptionType) (bool, error)
	EarliestForSession(ctx context.Context, sessionID string) (*billing.UsageLog, error)
	// WithTx returns a copy of the repository bound to tx.
	WithTx(tx *gorm.DB) UsageLogRepository
}

// UsageHistoryRepository upserts the monthly snapshot row alongside the
// ledger write.
type UsageHistoryRepository interface {
	GetOrCreate(ctx context.Context, ownerID string, periodStart time.Time, plan billing.Plan) (*billing.UsageHistory, error)
	Update(ctx context.Context, history *billing.UsageHistory) error
	// WithTx returns a copy of the repository bound to tx.
	WithTx(tx *gorm.DB) UsageHistoryRepository
}
