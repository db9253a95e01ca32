package service

import (
	"context"
	"strings"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

// TransitionToReady: SCHEDULED → READY.
func (m *StateMachine) TransitionToReady(ctx context.Context, s model.Session) (bool, error) {
	if m.rejectInvalid(ctx, s, model.SessionReady) {
		return false, nil
	}
	now := m.clock.Now()
	ok, err := m.apply(ctx, s, model.SessionReady, StatusFields{PreparationCompletedAt: &now})
	if err != nil || !ok {
		return false, err
	}

	m.log.InfoContext(ctx, "session transitioned to READY", "session_id", s.ID(), "scheduled_at", s.ScheduledAt())
	m.notify(ctx, s, NotifyReady)
	return true, nil
}

// TransitionToOngoing: READY → ONGOING, dijaga window admission.
func (m *StateMachine) TransitionToOngoing(ctx context.Context, s model.Session) (bool, error) {
	if m.rejectInvalid(ctx, s, model.SessionOngoing) {
		return false, nil
	}
	th, err := m.thresholds(ctx, s)
	if err != nil {
		return false, err
	}
	now := m.clock.Now()
	if !withinOngoingWindow(now, s.ScheduledAt(), th) {
		m.log.WarnContext(ctx, "transisi ONGOING ditolak: di luar window admission",
			"session_id", s.ID(),
			"scheduled_at", s.ScheduledAt(),
			"now", now,
			"early_join_minutes", th.EarlyJoinMinutes,
			"max_future_hours_ongoing", th.MaxFutureHoursOngoing,
		)
		return false, nil
	}

	ok, err := m.apply(ctx, s, model.SessionOngoing, StatusFields{StartedAt: &now})
	if err != nil || !ok {
		return false, err
	}

	m.log.InfoContext(ctx, "session transitioned to ONGOING", "session_id", s.ID(), "started_at", now)
	m.notify(ctx, s, NotifyStarted)
	return true, nil
}

// TransitionToCompleted: READY/ONGOING → COMPLETED.
// actual_duration = ended_at − (started_at ?? scheduled_at).
func (m *StateMachine) TransitionToCompleted(ctx context.Context, s model.Session) (bool, error) {
	if m.rejectInvalid(ctx, s, model.SessionCompleted) {
		return false, nil
	}
	now := m.clock.Now()
	start := s.ScheduledAt()
	if st := s.StartedAt(); st != nil {
		start = *st
	}
	actual := int(now.Sub(start) / time.Minute)
	if actual < 0 {
		actual = 0
	}

	ok, err := m.apply(ctx, s, model.SessionCompleted, StatusFields{EndedAt: &now, ActualDurationMinutes: &actual})
	if err != nil || !ok {
		return false, err
	}

	m.log.InfoContext(ctx, "session transitioned to COMPLETED", "session_id", s.ID(), "ended_at", now, "actual_duration", actual)
	m.notify(ctx, s, NotifyCompleted)
	return true, nil
}

// TransitionToCancelled: SCHEDULED/READY → CANCELLED. Tidak mengirim notifikasi;
// pemberitahuan pembatalan dikirim oleh layer pemanggil.
func (m *StateMachine) TransitionToCancelled(ctx context.Context, s model.Session, reason *string, cancelledBy *uuid.UUID) (bool, error) {
	if m.rejectInvalid(ctx, s, model.SessionCancelled) {
		return false, nil
	}
	if reason != nil {
		r := strings.TrimSpace(*reason)
		if r == "" {
			reason = nil
		} else {
			reason = &r
		}
	}
	if cancelledBy != nil && *cancelledBy == uuid.Nil {
		cancelledBy = nil
	}

	now := m.clock.Now()
	ok, err := m.apply(ctx, s, model.SessionCancelled, StatusFields{
		CancelledAt:        &now,
		CancelledBy:        cancelledBy,
		CancellationReason: reason,
	})
	if err != nil || !ok {
		return false, err
	}

	m.log.InfoContext(ctx, "session transitioned to CANCELLED", "session_id", s.ID(), "reason", reason, "cancelled_by", cancelledBy)
	return true, nil
}

// TransitionToAbsent: READY → ABSENT, khusus sesi individual. Hanya status yang berubah.
func (m *StateMachine) TransitionToAbsent(ctx context.Context, s model.Session) (bool, error) {
	if !m.settings.IsIndividual(s) {
		m.log.WarnContext(ctx, "transisi ABSENT ditolak: bukan sesi individual", "session_id", s.ID(), "kind", s.Kind())
		return false, nil
	}
	if m.rejectInvalid(ctx, s, model.SessionAbsent) {
		return false, nil
	}

	ok, err := m.apply(ctx, s, model.SessionAbsent, StatusFields{})
	if err != nil || !ok {
		return false, err
	}

	m.log.InfoContext(ctx, "session transitioned to ABSENT", "session_id", s.ID(), "learner_ids", s.LearnerIDs())
	m.notify(ctx, s, NotifyAbsent)
	return true, nil
}
