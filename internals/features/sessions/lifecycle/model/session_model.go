// file: internals/features/sessions/lifecycle/model/session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

/*
=========================================================

	Enums (mirror dari tutoring_session_status_enum di DB)
	=========================================================
*/
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionReady     SessionStatus = "ready"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionAbsent    SessionStatus = "absent"
)

// IsTerminal: completed/cancelled/absent tidak bisa keluar lagi.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionCompleted, SessionCancelled, SessionAbsent:
		return true
	}
	return false
}

// ActiveStatuses = status yang masih dievaluasi batch.
var ActiveStatuses = []SessionStatus{SessionScheduled, SessionReady, SessionOngoing}

type SessionKind string

const (
	SessionKindIndividual SessionKind = "individual"
	SessionKindCircle     SessionKind = "circle"
	SessionKindCourse     SessionKind = "course"
)

/*
=========================================================

	Model
	=========================================================
*/
type TutoringSessionModel struct {
	// PK
	TutoringSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:tutoring_session_id" json:"tutoring_session_id"`

	// Tenant guard
	TutoringSessionAcademyID uuid.UUID `gorm:"type:uuid;not null;index;column:tutoring_session_academy_id" json:"tutoring_session_academy_id"`

	TutoringSessionKind  SessionKind `gorm:"type:varchar(16);not null;column:tutoring_session_kind" json:"tutoring_session_kind"`
	TutoringSessionTitle *string     `gorm:"type:text;column:tutoring_session_title" json:"tutoring_session_title,omitempty"`

	// Lifecycle (hanya state machine yang boleh menulis status)
	TutoringSessionStatus          SessionStatus `gorm:"type:varchar(16);not null;default:'scheduled';index;column:tutoring_session_status" json:"tutoring_session_status"`
	TutoringSessionScheduledAt     time.Time     `gorm:"type:timestamptz;not null;index;column:tutoring_session_scheduled_at" json:"tutoring_session_scheduled_at"`
	TutoringSessionDurationMinutes int           `gorm:"not null;default:60;column:tutoring_session_duration_minutes" json:"tutoring_session_duration_minutes"`

	TutoringSessionPreparationCompletedAt *time.Time `gorm:"type:timestamptz;column:tutoring_session_preparation_completed_at" json:"tutoring_session_preparation_completed_at,omitempty"`
	TutoringSessionStartedAt              *time.Time `gorm:"type:timestamptz;column:tutoring_session_started_at" json:"tutoring_session_started_at,omitempty"`
	TutoringSessionEndedAt                *time.Time `gorm:"type:timestamptz;column:tutoring_session_ended_at" json:"tutoring_session_ended_at,omitempty"`
	TutoringSessionActualDurationMinutes  *int       `gorm:"column:tutoring_session_actual_duration_minutes" json:"tutoring_session_actual_duration_minutes,omitempty"`

	// Cancel
	TutoringSessionCancelledAt        *time.Time `gorm:"type:timestamptz;column:tutoring_session_cancelled_at" json:"tutoring_session_cancelled_at,omitempty"`
	TutoringSessionCancelledBy        *uuid.UUID `gorm:"type:uuid;column:tutoring_session_cancelled_by" json:"tutoring_session_cancelled_by,omitempty"`
	TutoringSessionCancellationReason *string    `gorm:"type:text;column:tutoring_session_cancellation_reason" json:"tutoring_session_cancellation_reason,omitempty"`

	// Peserta: student_id untuk individual, learner_ids (roster) untuk circle/course
	TutoringSessionTeacherID  uuid.UUID      `gorm:"type:uuid;not null;column:tutoring_session_teacher_id" json:"tutoring_session_teacher_id"`
	TutoringSessionStudentID  *uuid.UUID     `gorm:"type:uuid;column:tutoring_session_student_id" json:"tutoring_session_student_id,omitempty"`
	TutoringSessionLearnerIDs pq.StringArray `gorm:"type:text[];column:tutoring_session_learner_ids" json:"tutoring_session_learner_ids,omitempty"`

	// Audit
	TutoringSessionCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:tutoring_session_created_at" json:"tutoring_session_created_at"`
	TutoringSessionUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:tutoring_session_updated_at" json:"tutoring_session_updated_at"`
}

func (TutoringSessionModel) TableName() string { return "tutoring_sessions" }

// Accessor dipakai oleh adapter per-kind.

func (m *TutoringSessionModel) ID() uuid.UUID { return m.TutoringSessionID }
func (m *TutoringSessionModel) AcademyID() uuid.UUID { return m.TutoringSessionAcademyID }
func (m *TutoringSessionModel) Status() SessionStatus { return m.TutoringSessionStatus }
func (m *TutoringSessionModel) ScheduledAt() time.Time { return m.TutoringSessionScheduledAt }
func (m *TutoringSessionModel) DurationMinutes() int { return m.TutoringSessionDurationMinutes }
func (m *TutoringSessionModel) StartedAt() *time.Time { return m.TutoringSessionStartedAt }
func (m *TutoringSessionModel) TeacherID() uuid.UUID { return m.TutoringSessionTeacherID }
func (m *TutoringSessionModel) Record() *TutoringSessionModel { return m }

func (m *TutoringSessionModel) Title() string {
	if m.TutoringSessionTitle != nil {
		return *m.TutoringSessionTitle
	}
	return ""
}
