package store

import (
	"context"
	"errors"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"
	"halaqahku_backend/internals/features/sessions/lifecycle/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultListLimit = 500

type GormSessionStore struct {
	db *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

var _ service.SessionStore = (*GormSessionStore)(nil)

// CompareAndSetStatus: satu UPDATE bersyarat, RowsAffected==0 artinya status
// sudah bukan salah satu "from" (transisi sudah dijalankan proses lain).
func (s *GormSessionStore) CompareAndSetStatus(
	ctx context.Context,
	id uuid.UUID,
	from []model.SessionStatus,
	to model.SessionStatus,
	fields service.StatusFields,
) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}

	updates := map[string]any{
		"tutoring_session_status":     to,
		"tutoring_session_updated_at": time.Now(),
	}
	if fields.PreparationCompletedAt != nil {
		updates["tutoring_session_preparation_completed_at"] = *fields.PreparationCompletedAt
	}
	if fields.StartedAt != nil {
		updates["tutoring_session_started_at"] = *fields.StartedAt
	}
	if fields.EndedAt != nil {
		updates["tutoring_session_ended_at"] = *fields.EndedAt
	}
	if fields.ActualDurationMinutes != nil {
		updates["tutoring_session_actual_duration_minutes"] = *fields.ActualDurationMinutes
	}
	if fields.CancelledAt != nil {
		updates["tutoring_session_cancelled_at"] = *fields.CancelledAt
	}
	if fields.CancelledBy != nil {
		updates["tutoring_session_cancelled_by"] = *fields.CancelledBy
	}
	if fields.CancellationReason != nil {
		updates["tutoring_session_cancellation_reason"] = *fields.CancellationReason
	}

	res := s.db.WithContext(ctx).
		Model(&model.TutoringSessionModel{}).
		Where("tutoring_session_id = ? AND tutoring_session_status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormSessionStore) FindByID(ctx context.Context, id uuid.UUID) (*model.TutoringSessionModel, error) {
	var m model.TutoringSessionModel
	err := s.db.WithContext(ctx).
		Where("tutoring_session_id = ?", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListActive = satu halaman working set batch: status aktif, keyset
// (scheduled_at, id) agar pemanggil bisa menelusuri seluruh set.
func (s *GormSessionStore) ListActive(ctx context.Context, f service.Filter) ([]*model.TutoringSessionModel, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := s.db.WithContext(ctx).
		Model(&model.TutoringSessionModel{}).
		Where("tutoring_session_status IN ?", model.ActiveStatuses)
	if f.AcademyID != nil {
		q = q.Where("tutoring_session_academy_id = ?", *f.AcademyID)
	}
	if f.Kind != nil {
		q = q.Where("tutoring_session_kind = ?", *f.Kind)
	}
	if f.After != nil {
		q = q.Where("(tutoring_session_scheduled_at, tutoring_session_id) > (?, ?)", f.After.ScheduledAt, f.After.ID)
	}

	var rows []*model.TutoringSessionModel
	if err := q.Order("tutoring_session_scheduled_at ASC, tutoring_session_id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
