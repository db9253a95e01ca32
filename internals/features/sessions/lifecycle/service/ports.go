package service

import (
	"context"
	"errors"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session tidak ditemukan")

// Thresholds per sesi (sudah di-resolve per academy/kind oleh SettingsProvider).
type Thresholds struct {
	PreparationMinutes    int
	MaxFutureHours        int
	MaxPastHours          int
	EarlyJoinMinutes      int
	MaxFutureHoursOngoing int
	GracePeriodMinutes    int
	BufferMinutes         int
}

type SettingsProvider interface {
	SessionKind(s model.Session) model.SessionKind
	IsIndividual(s model.Session) bool
	Thresholds(ctx context.Context, s model.Session) (Thresholds, error)
}

const (
	NotifyReady     = "ready"
	NotifyStarted   = "started"
	NotifyCompleted = "completed"
	NotifyAbsent    = "absent"
)

type NotificationContext struct {
	Event      string
	Kind       model.SessionKind
	OccurredAt time.Time
}

// NotificationSink bersifat best-effort: error hanya dicatat, tidak membatalkan transisi.
type NotificationSink interface {
	SendReady(ctx context.Context, s model.Session, nc NotificationContext) error
	SendStarted(ctx context.Context, s model.Session, nc NotificationContext) error
	SendCompleted(ctx context.Context, s model.Session, nc NotificationContext) error
	SendAbsent(ctx context.Context, s model.Session, nc NotificationContext) error
}

// ParticipationReader dipenuhi oleh attendance ledger.
type ParticipationReader interface {
	HasParticipation(ctx context.Context, sessionID, participantID uuid.UUID) (bool, error)
	AnyParticipantJoined(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// StatusFields = kolom timing yang ikut ditulis bersama status.
type StatusFields struct {
	PreparationCompletedAt *time.Time
	StartedAt              *time.Time
	EndedAt                *time.Time
	ActualDurationMinutes  *int
	CancelledAt            *time.Time
	CancelledBy            *uuid.UUID
	CancellationReason     *string
}

func (f StatusFields) applyTo(m *model.TutoringSessionModel) {
	if f.PreparationCompletedAt != nil {
		m.TutoringSessionPreparationCompletedAt = f.PreparationCompletedAt
	}
	if f.StartedAt != nil {
		m.TutoringSessionStartedAt = f.StartedAt
	}
	if f.EndedAt != nil {
		m.TutoringSessionEndedAt = f.EndedAt
	}
	if f.ActualDurationMinutes != nil {
		m.TutoringSessionActualDurationMinutes = f.ActualDurationMinutes
	}
	if f.CancelledAt != nil {
		m.TutoringSessionCancelledAt = f.CancelledAt
	}
	if f.CancelledBy != nil {
		m.TutoringSessionCancelledBy = f.CancelledBy
	}
	if f.CancellationReason != nil {
		m.TutoringSessionCancellationReason = f.CancellationReason
	}
}

// Cursor keyset (scheduled_at, id) untuk paging working set batch.
type Cursor struct {
	ScheduledAt time.Time
	ID          uuid.UUID
}

// Filter.Limit = jumlah baris per panggilan ListActive. Di RunDue, Limit > 0
// berarti batas total sesi per run; 0 = seluruh working set.
type Filter struct {
	AcademyID *uuid.UUID
	Kind      *model.SessionKind
	Limit     int
	After     *Cursor
}

type SessionStore interface {
	// CompareAndSetStatus: UPDATE ... WHERE status IN (from). false = tidak ada baris yang cocok.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from []model.SessionStatus, to model.SessionStatus, fields StatusFields) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.TutoringSessionModel, error)
	// ListActive: status aktif, urut (scheduled_at, id), mulai setelah f.After.
	ListActive(ctx context.Context, f Filter) ([]*model.TutoringSessionModel, error)
}
