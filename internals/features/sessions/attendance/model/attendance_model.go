// file: internals/features/sessions/attendance/model/attendance_model.go
package model

import (
	"encoding/json"
	"time"

	sessionmodel "halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
   Enums
========================================================= */

// ParticipantRole diklasifikasi sekali saat record dibuat, tidak dihitung ulang saat dibaca.
type ParticipantRole string

const (
	RoleTeacher    ParticipantRole = "teacher"
	RoleLearner    ParticipantRole = "learner"
	RoleSupervisor ParticipantRole = "supervisor"
)

type CycleType string

const (
	CycleJoin  CycleType = "join"
	CycleLeave CycleType = "leave"
)

// Cycle = satu event join/leave di log. DurationMinutes hanya untuk leave yang berpasangan.
type Cycle struct {
	Type                 CycleType `json:"type"`
	Timestamp            time.Time `json:"timestamp"`
	EventID              string    `json:"event_id,omitempty"`
	ParticipantSessionID string    `json:"participant_session_id,omitempty"`
	DurationMinutes      *int      `json:"duration_minutes,omitempty"`
}

/* =========================================================
   Model
========================================================= */

type SessionAttendanceModel struct {
	SessionAttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:session_attendance_id" json:"session_attendance_id"`

	// satu record per (session, participant)
	SessionAttendanceSessionID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_session_attendance_participant,priority:1;column:session_attendance_session_id" json:"session_attendance_session_id"`
	SessionAttendanceParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_session_attendance_participant,priority:2;column:session_attendance_participant_id" json:"session_attendance_participant_id"`

	SessionAttendanceRole ParticipantRole          `gorm:"type:varchar(16);not null;column:session_attendance_role" json:"session_attendance_role"`
	SessionAttendanceKind sessionmodel.SessionKind `gorm:"type:varchar(16);not null;column:session_attendance_kind" json:"session_attendance_kind"`

	SessionAttendanceJoinCount  int `gorm:"not null;default:0;column:session_attendance_join_count" json:"session_attendance_join_count"`
	SessionAttendanceLeaveCount int `gorm:"not null;default:0;column:session_attendance_leave_count" json:"session_attendance_leave_count"`

	SessionAttendanceFirstJoinTime *time.Time `gorm:"type:timestamptz;column:session_attendance_first_join_time" json:"session_attendance_first_join_time,omitempty"`
	SessionAttendanceLastLeaveTime *time.Time `gorm:"type:timestamptz;column:session_attendance_last_leave_time" json:"session_attendance_last_leave_time,omitempty"`

	SessionAttendanceTotalDurationMinutes int `gorm:"not null;default:0;column:session_attendance_total_duration_minutes" json:"session_attendance_total_duration_minutes"`

	// diisi aggregator eksternal
	SessionAttendancePercentage   *float64 `gorm:"type:numeric(5,2);column:session_attendance_percentage" json:"session_attendance_percentage,omitempty"`
	SessionAttendanceIsCalculated bool     `gorm:"not null;default:false;column:session_attendance_is_calculated" json:"session_attendance_is_calculated"`

	// append-only, urutan = urutan kedatangan
	SessionAttendanceCycles datatypes.JSON `gorm:"type:jsonb;not null;default:'[]';column:session_attendance_cycles" json:"session_attendance_cycles"`

	SessionAttendanceCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:session_attendance_created_at" json:"session_attendance_created_at"`
	SessionAttendanceUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:session_attendance_updated_at" json:"session_attendance_updated_at"`
}

func (SessionAttendanceModel) TableName() string { return "session_attendances" }

// DecodeCycles membaca log cycle; kolom kosong/null = log kosong.
func (m *SessionAttendanceModel) DecodeCycles() ([]Cycle, error) {
	if len(m.SessionAttendanceCycles) == 0 || string(m.SessionAttendanceCycles) == "null" {
		return []Cycle{}, nil
	}
	var out []Cycle
	if err := json.Unmarshal(m.SessionAttendanceCycles, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Cycle{}
	}
	return out, nil
}

func (m *SessionAttendanceModel) SetCycles(cycles []Cycle) error {
	if cycles == nil {
		cycles = []Cycle{}
	}
	b, err := json.Marshal(cycles)
	if err != nil {
		return err
	}
	m.SessionAttendanceCycles = datatypes.JSON(b)
	return nil
}
