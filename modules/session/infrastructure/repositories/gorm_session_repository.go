// Package repositories implements the session store (spec.md §4.3)
// over GORM/Postgres.
package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	domainrepo "github.com/coachtranscribe/engine/modules/session/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/infrastructure/database"
)

func onConflictSessionRole() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "speaker_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}
}

func onConflictSegmentRole() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "segment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}
}

// GormSessionRepository implements SessionRepository using GORM.
// Grounded on the teacher's GormTranscriptionRepository, extended with
// CompareAndSetStatus (the CAS spec.md §4.6 requires to serialize
// concurrent start_transcription calls) and the role-overlay and
// quota-aggregate operations spec.md §4.3/§4.4 add.
type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository() *GormSessionRepository {
	return &GormSessionRepository{db: database.GetDB()}
}

func (r *GormSessionRepository) Save(ctx context.Context, session *entities.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *GormSessionRepository) Get(ctx context.Context, id, owner string) (*entities.Session, error) {
	var session entities.Session
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&session).Error
	if err != nil {
		if gorm.ErrRecordNotFound == err {
			return nil, domainrepo.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) List(ctx context.Context, owner string, status *entities.Status, limit, offset int) ([]*entities.Session, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", owner)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	var sessions []*entities.Session
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&sessions).Error
	return sessions, err
}

func (r *GormSessionRepository) Update(ctx context.Context, session *entities.Session) error {
	result := r.db.WithContext(ctx).Save(session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

// CompareAndSetStatus implements spec.md §4.6's "compare-and-set on the
// (session_id, status) pair": the UPDATE's WHERE clause only matches a
// row currently in `from`, so a concurrent racer's statement affects
// zero rows and observes (false, nil).
func (r *GormSessionRepository) CompareAndSetStatus(ctx context.Context, id string, from, to entities.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SaveSegments replaces a Session's segments in one transaction
// (spec.md §4.3 "a single transaction; partial writes are never
// observable").
func (r *GormSessionRepository) SaveSegments(ctx context.Context, sessionID string, segments []entities.TranscriptSegment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&entities.TranscriptSegment{}).Error; err != nil {
			return err
		}
		if len(segments) == 0 {
			return nil
		}
		for i := range segments {
			segments[i].SessionID = sessionID
		}
		return tx.Create(&segments).Error
	})
}

func (r *GormSessionRepository) ClearSegments(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&entities.TranscriptSegment{}).Error
}

func (r *GormSessionRepository) ListSegments(ctx context.Context, sessionID string) ([]entities.TranscriptSegment, error) {
	var segments []entities.TranscriptSegment
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("start_seconds ASC").Find(&segments).Error
	return segments, err
}

func (r *GormSessionRepository) PutSessionRoles(ctx context.Context, sessionID string, roles map[int]entities.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for speakerID, role := range roles {
			row := entities.NewSessionRole(sessionID, speakerID, role)
			if err := tx.Clauses(onConflictSessionRole()).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormSessionRepository) PutSegmentRoles(ctx context.Context, sessionID string, roles map[string]entities.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for segmentID, role := range roles {
			row := entities.NewSegmentRole(sessionID, segmentID, role)
			if err := tx.Clauses(onConflictSegmentRole()).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormSessionRepository) GetSessionRoles(ctx context.Context, sessionID string) (map[int]entities.Role, error) {
	var rows []entities.SessionRole
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int]entities.Role, len(rows))
	for _, row := range rows {
		out[row.SpeakerID] = row.Role
	}
	return out, nil
}

func (r *GormSessionRepository) GetSegmentRoles(ctx context.Context, sessionID string) (map[string]entities.Role, error) {
	var rows []entities.SegmentRole
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]entities.Role, len(rows))
	for _, row := range rows {
		out[row.SegmentID] = row.Role
	}
	return out, nil
}

func (r *GormSessionRepository) CountSessionsSince(ctx context.Context, owner string, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Session{}).
		Where("owner_id = ? AND created_at >= ?", owner, since).
		Count(&count).Error
	return int(count), err
}

func (r *GormSessionRepository) SumDurationSecondsSince(ctx context.Context, owner string, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Session{}).
		Where("owner_id = ? AND created_at >= ? AND status = ?", owner, since, string(entities.StatusCompleted)).
		Select("COALESCE(SUM(duration_seconds), 0)").
		Scan(&total).Error
	return total, err
}

func (r *GormSessionRepository) ListStuckProcessing(ctx context.Context, cutoff time.Time) ([]*entities.Session, error) {
	var sessions []*entities.Session
	err := r.db.WithContext(ctx).
		Where("status = ? AND transcription_started_at < ?", string(entities.StatusProcessing), cutoff).
		Find(&sessions).Error
	return sessions, err
}

var _ domainrepo.SessionRepository = (*GormSessionRepository)(nil)
