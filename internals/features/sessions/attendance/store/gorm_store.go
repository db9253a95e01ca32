package store

import (
	"context"
	"errors"

	"halaqahku_backend/internals/features/sessions/attendance/model"
	"halaqahku_backend/internals/features/sessions/attendance/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormAttendanceStore struct {
	db *gorm.DB
}

func NewGormAttendanceStore(db *gorm.DB) *GormAttendanceStore {
	return &GormAttendanceStore{db: db}
}

var _ service.Store = (*GormAttendanceStore)(nil)

func lockRow(tx *gorm.DB, sessionID, participantID uuid.UUID, out *model.SessionAttendanceModel) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_attendance_session_id = ? AND session_attendance_participant_id = ?", sessionID, participantID).
		First(out).Error
}

// Mutate = satu transaksi: SELECT ... FOR UPDATE, lazy insert (ON CONFLICT DO NOTHING),
// lalu simpan hasil fn. Dua proses yang berebut key yang sama akan antre di row lock.
func (s *GormAttendanceStore) Mutate(
	ctx context.Context,
	sessionID, participantID uuid.UUID,
	init *model.SessionAttendanceModel,
	fn service.MutateFunc,
) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec model.SessionAttendanceModel
		err := lockRow(tx, sessionID, participantID, &rec)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if init == nil {
				return service.ErrAttendanceNotFound
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "session_attendance_session_id"},
					{Name: "session_attendance_participant_id"},
				},
				DoNothing: true,
			}).Create(init).Error; err != nil {
				return err
			}
			rec = model.SessionAttendanceModel{}
			err = lockRow(tx, sessionID, participantID, &rec)
		}
		if err != nil {
			return err
		}

		changed, err := fn(&rec)
		if err != nil || !changed {
			return err
		}
		return tx.Save(&rec).Error
	})
}

func (s *GormAttendanceStore) Find(ctx context.Context, sessionID, participantID uuid.UUID) (*model.SessionAttendanceModel, error) {
	var rec model.SessionAttendanceModel
	err := s.db.WithContext(ctx).
		Where("session_attendance_session_id = ? AND session_attendance_participant_id = ?", sessionID, participantID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrAttendanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormAttendanceStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.SessionAttendanceModel, error) {
	var rows []model.SessionAttendanceModel
	err := s.db.WithContext(ctx).
		Where("session_attendance_session_id = ?", sessionID).
		Order("session_attendance_created_at ASC").
		Find(&rows).Error
	return rows, err
}
