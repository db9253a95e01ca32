package service

import (
	"context"
	"fmt"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"
)

/*
	Guard = keputusan murni, terpisah dari transitionTo* supaya pemanggil
	bisa test-before-act. Error hanya untuk kegagalan infrastruktur
	(settings / attendance tidak bisa dibaca).
*/

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
func hours(n int) time.Duration   { return time.Duration(n) * time.Hour }

// Window persiapan: tidak terlalu jauh di depan, tidak terlalu basi di belakang,
// dan sudah masuk preparationMinutes sebelum mulai.
func withinReadinessWindow(now, scheduledAt time.Time, th Thresholds) bool {
	delta := scheduledAt.Sub(now)
	if delta > hours(th.MaxFutureHours) {
		return false
	}
	if -delta > hours(th.MaxPastHours) {
		return false
	}
	return delta <= minutes(th.PreparationMinutes)
}

// Admission ONGOING: tidak lebih awal dari earlyJoin, tidak lebih telat dari maxFutureHoursOngoing.
func withinOngoingWindow(now, scheduledAt time.Time, th Thresholds) bool {
	if now.Before(scheduledAt.Add(-minutes(th.EarlyJoinMinutes))) {
		return false
	}
	return now.Sub(scheduledAt) <= hours(th.MaxFutureHoursOngoing)
}

func (m *StateMachine) thresholds(ctx context.Context, s model.Session) (Thresholds, error) {
	th, err := m.settings.Thresholds(ctx, s)
	if err != nil {
		return Thresholds{}, fmt.Errorf("ambil threshold session %s: %w", s.ID(), err)
	}
	return th, nil
}

func (m *StateMachine) ShouldTransitionToReady(ctx context.Context, s model.Session) (bool, error) {
	if s.Status() != model.SessionScheduled {
		return false, nil
	}
	th, err := m.thresholds(ctx, s)
	if err != nil {
		return false, err
	}
	return withinReadinessWindow(m.clock.Now(), s.ScheduledAt(), th), nil
}

// ShouldTransitionToOngoing: READY, dalam window admission, dan sudah ada peserta yang join.
func (m *StateMachine) ShouldTransitionToOngoing(ctx context.Context, s model.Session) (bool, error) {
	if s.Status() != model.SessionReady {
		return false, nil
	}
	th, err := m.thresholds(ctx, s)
	if err != nil {
		return false, err
	}
	if !withinOngoingWindow(m.clock.Now(), s.ScheduledAt(), th) {
		return false, nil
	}
	if m.attendance == nil {
		return false, nil
	}
	joined, err := m.attendance.AnyParticipantJoined(ctx, s.ID())
	if err != nil {
		return false, fmt.Errorf("cek partisipasi session %s: %w", s.ID(), err)
	}
	return joined, nil
}

// ShouldTransitionToAbsent hanya untuk sesi individual; sesi grup/course
// mencatat absen per peserta di luar state machine.
func (m *StateMachine) ShouldTransitionToAbsent(ctx context.Context, s model.Session) (bool, error) {
	if !m.settings.IsIndividual(s) || s.Status() != model.SessionReady {
		return false, nil
	}
	th, err := m.thresholds(ctx, s)
	if err != nil {
		return false, err
	}
	if m.clock.Now().Sub(s.ScheduledAt()) < minutes(th.GracePeriodMinutes) {
		return false, nil
	}

	learners := s.LearnerIDs()
	if len(learners) == 0 {
		m.log.WarnContext(ctx, "sesi individual tanpa student, absent tidak dievaluasi", "session_id", s.ID())
		return false, nil
	}
	if m.attendance == nil {
		return true, nil
	}
	participated, err := m.attendance.HasParticipation(ctx, s.ID(), learners[0])
	if err != nil {
		return false, fmt.Errorf("cek partisipasi session %s: %w", s.ID(), err)
	}
	return !participated, nil
}

func (m *StateMachine) ShouldAutoComplete(ctx context.Context, s model.Session) (bool, error) {
	if s.Status() != model.SessionOngoing {
		return false, nil
	}
	th, err := m.thresholds(ctx, s)
	if err != nil {
		return false, err
	}
	elapsed := m.clock.Now().Sub(s.ScheduledAt())
	return elapsed > minutes(s.DurationMinutes()+th.BufferMinutes), nil
}
