// Package repositories implements the billing module's persistence
// ports over GORM/Postgres.
package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	billing "github.com/coachtranscribe/engine/modules/billing/domain"
	domainrepo "github.com/coachtranscribe/engine/modules/billing/domain/repositories"
	userentities "github.com/coachtranscribe/engine/modules/user/domain/entities"
	"github.com/coachtranscribe/engine/seedwork/domain"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/database"
)

// GormUserLedgerPort implements UserLedgerPort, grounded on the
// teacher's gorm_user_repository.go query style, adding the
// `clause.Locking` row lock spec.md §5 requires for the ledger
// transaction.
type GormUserLedgerPort struct {
	db *gorm.DB
}

func NewGormUserLedgerPort() *GormUserLedgerPort {
	return &GormUserLedgerPort{db: database.GetDB()}
}

func (r *GormUserLedgerPort) LockForUpdate(ctx context.Context, ownerID string) (*userentities.User, error) {
	var user userentities.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", ownerID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserLedgerPort) Update(ctx context.Context, user *userentities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// WithTx returns a port bound to tx, so LockForUpdate's row lock and
// the subsequent Update stay on the same connection and the same
// transaction as the rest of the ledger write (spec.md §4.5(iv), §5).
func (r *GormUserLedgerPort) WithTx(tx *gorm.DB) domainrepo.UserLedgerPort {
	return &GormUserLedgerPort{db: tx}
}

var _ domainrepo.UserLedgerPort = (*GormUserLedgerPort)(nil)

// GormUsageLogRepository implements UsageLogRepository.
type GormUsageLogRepository struct {
	db *gorm.DB
}

func NewGormUsageLogRepository() *GormUsageLogRepository {
	return &GormUsageLogRepository{db: database.GetDB()}
}

func (r *GormUsageLogRepository) Create(ctx context.Context, log *billing.UsageLog) error {
	// ON CONFLICT DO NOTHING on (session_id, transcription_type) makes
	// the write idempotent under redelivery, per spec.md §4.5
	// "Duplicate insertion ... the attempt is idempotent."
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(log).Error
}

func (r *GormUsageLogRepository) ExistsForSessionAndType(ctx context.Context, sessionID string, kind billing.TranscriptionType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.UsageLog{}).
		Where("session_id = ? AND transcription_type = ?", sessionID, string(kind)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUsageLogRepository) EarliestForSession(ctx context.Context, sessionID string) (*billing.UsageLog, error) {
	var log billing.UsageLog
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		First(&log).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// WithTx returns a repository bound to tx, so the log insert joins the
// caller's transaction.
func (r *GormUsageLogRepository) WithTx(tx *gorm.DB) domainrepo.UsageLogRepository {
	return &GormUsageLogRepository{db: tx}
}

var _ domainrepo.UsageLogRepository = (*GormUsageLogRepository)(nil)

// GormUsageHistoryRepository implements UsageHistoryRepository.
type GormUsageHistoryRepository struct {
	db *gorm.DB
}

func NewGormUsageHistoryRepository() *GormUsageHistoryRepository {
	return &GormUsageHistoryRepository{db: database.GetDB()}
}

func (r *GormUsageHistoryRepository) GetOrCreate(ctx context.Context, ownerID string, periodStart time.Time, plan billing.Plan) (*billing.UsageHistory, error) {
	var history billing.UsageHistory
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND period_start = ?", ownerID, periodStart).
		First(&history).Error
	if err == nil {
		return &history, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	history = billing.UsageHistory{OwnerID: ownerID, PeriodStart: periodStart, PlanAtPeriod: plan}
	history.SetID(domain.GenerateID())
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&history).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *GormUsageHistoryRepository) Update(ctx context.Context, history *billing.UsageHistory) error {
	return r.db.WithContext(ctx).Save(history).Error
}

// WithTx returns a repository bound to tx, so the snapshot upsert joins
// the caller's transaction.
func (r *GormUsageHistoryRepository) WithTx(tx *gorm.DB) domainrepo.UsageHistoryRepository {
	return &GormUsageHistoryRepository{db: tx}
}

var _ domainrepo.UsageHistoryRepository = (*GormUsageHistoryRepository)(nil)
