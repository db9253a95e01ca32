// file: internals/features/sessions/lifecycle/dto/session_dto.go
package dto

import (
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CancelSessionRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// Query untuk trigger batch manual
type RunBatchQuery struct {
	DryRun    bool    `query:"dry_run"`
	AcademyID *string `query:"academy_id" validate:"omitempty,uuid"`
	Kind      *string `query:"kind" validate:"omitempty,oneof=individual circle course"`
	Limit     int     `query:"limit" validate:"omitempty,min=1,max=5000"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type SessionResponse struct {
	ID                     uuid.UUID           `json:"tutoring_session_id"`
	AcademyID              uuid.UUID           `json:"tutoring_session_academy_id"`
	Kind                   model.SessionKind   `json:"tutoring_session_kind"`
	Title                  string              `json:"tutoring_session_title,omitempty"`
	Status                 model.SessionStatus `json:"tutoring_session_status"`
	ScheduledAt            time.Time           `json:"tutoring_session_scheduled_at"`
	DurationMinutes        int                 `json:"tutoring_session_duration_minutes"`
	PreparationCompletedAt *time.Time          `json:"tutoring_session_preparation_completed_at,omitempty"`
	StartedAt              *time.Time          `json:"tutoring_session_started_at,omitempty"`
	EndedAt                *time.Time          `json:"tutoring_session_ended_at,omitempty"`
	ActualDurationMinutes  *int                `json:"tutoring_session_actual_duration_minutes,omitempty"`
	CancelledAt            *time.Time          `json:"tutoring_session_cancelled_at,omitempty"`
	CancelledBy            *uuid.UUID          `json:"tutoring_session_cancelled_by,omitempty"`
	CancellationReason     *string             `json:"tutoring_session_cancellation_reason,omitempty"`
	TeacherID              uuid.UUID           `json:"tutoring_session_teacher_id"`
	LearnerIDs             []uuid.UUID         `json:"tutoring_session_learner_ids"`
}

type TransitionResponse struct {
	Transitioned bool            `json:"transitioned"`
	Session      SessionResponse `json:"session"`
}

func ToSessionResponse(s model.Session) SessionResponse {
	m := s.Record()
	learners := s.LearnerIDs()
	if learners == nil {
		learners = []uuid.UUID{}
	}
	return SessionResponse{
		ID:                     m.TutoringSessionID,
		AcademyID:              m.TutoringSessionAcademyID,
		Kind:                   s.Kind(),
		Title:                  s.Title(),
		Status:                 m.TutoringSessionStatus,
		ScheduledAt:            m.TutoringSessionScheduledAt,
		DurationMinutes:        m.TutoringSessionDurationMinutes,
		PreparationCompletedAt: m.TutoringSessionPreparationCompletedAt,
		StartedAt:              m.TutoringSessionStartedAt,
		EndedAt:                m.TutoringSessionEndedAt,
		ActualDurationMinutes:  m.TutoringSessionActualDurationMinutes,
		CancelledAt:            m.TutoringSessionCancelledAt,
		CancelledBy:            m.TutoringSessionCancelledBy,
		CancellationReason:     m.TutoringSessionCancellationReason,
		TeacherID:              m.TutoringSessionTeacherID,
		LearnerIDs:             learners,
	}
}
