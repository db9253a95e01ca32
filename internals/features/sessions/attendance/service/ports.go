package service

import (
	"context"
	"errors"

	"halaqahku_backend/internals/features/sessions/attendance/model"
	sessionmodel "halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

var ErrAttendanceNotFound = errors.New("attendance record tidak ditemukan")

// MutateFunc mengubah record di dalam lock; changed=false berarti tidak ada yang disimpan.
type MutateFunc func(rec *model.SessionAttendanceModel) (changed bool, err error)

type Store interface {
	// Mutate mengunci record (session, participant) selama fn berjalan.
	// init != nil: record dibuat lebih dulu bila belum ada.
	// init == nil dan record tidak ada: ErrAttendanceNotFound, fn tidak dipanggil.
	Mutate(ctx context.Context, sessionID, participantID uuid.UUID, init *model.SessionAttendanceModel, fn MutateFunc) error
	Find(ctx context.Context, sessionID, participantID uuid.UUID) (*model.SessionAttendanceModel, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.SessionAttendanceModel, error)
}

type KindResolver interface {
	SessionKind(s sessionmodel.Session) sessionmodel.SessionKind
}

// CacheInvalidator dipanggil sinkron setelah setiap mutasi ledger.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, sessionID, participantID uuid.UUID) error
}
