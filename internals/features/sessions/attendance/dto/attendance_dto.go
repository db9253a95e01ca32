// file: internals/features/sessions/attendance/dto/attendance_dto.go
package dto

import (
	"time"

	"halaqahku_backend/internals/features/sessions/attendance/model"
	sessionmodel "halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Payload webhook join/leave. Timestamp boleh ISO-8601 string atau unix detik.
type ParticipantEventRequest struct {
	SessionID            string `json:"session_id" validate:"required,uuid"`
	ParticipantID        string `json:"participant_id" validate:"required,uuid"`
	EventID              string `json:"event_id" validate:"omitempty,max=128"`
	ParticipantSessionID string `json:"participant_session_id" validate:"omitempty,max=128"`
	Timestamp            any    `json:"timestamp" validate:"required"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type ParticipantEventResponse struct {
	Recorded      bool                       `json:"recorded"`
	SessionID     uuid.UUID                  `json:"session_id"`
	ParticipantID uuid.UUID                  `json:"participant_id"`
	SessionStatus sessionmodel.SessionStatus `json:"session_status"`
}

type AttendanceResponse struct {
	ID                   uuid.UUID                `json:"session_attendance_id"`
	SessionID            uuid.UUID                `json:"session_attendance_session_id"`
	ParticipantID        uuid.UUID                `json:"session_attendance_participant_id"`
	Role                 model.ParticipantRole    `json:"session_attendance_role"`
	Kind                 sessionmodel.SessionKind `json:"session_attendance_kind"`
	JoinCount            int                      `json:"session_attendance_join_count"`
	LeaveCount           int                      `json:"session_attendance_leave_count"`
	FirstJoinTime        *time.Time               `json:"session_attendance_first_join_time,omitempty"`
	LastLeaveTime        *time.Time               `json:"session_attendance_last_leave_time,omitempty"`
	TotalDurationMinutes int                      `json:"session_attendance_total_duration_minutes"`
	Percentage           *float64                 `json:"session_attendance_percentage,omitempty"`
	IsCalculated         bool                     `json:"session_attendance_is_calculated"`
	Cycles               []model.Cycle            `json:"session_attendance_cycles"`
}

func ToAttendanceResponse(m model.SessionAttendanceModel) AttendanceResponse {
	cycles, err := m.DecodeCycles()
	if err != nil {
		cycles = []model.Cycle{}
	}
	return AttendanceResponse{
		ID:                   m.SessionAttendanceID,
		SessionID:            m.SessionAttendanceSessionID,
		ParticipantID:        m.SessionAttendanceParticipantID,
		Role:                 m.SessionAttendanceRole,
		Kind:                 m.SessionAttendanceKind,
		JoinCount:            m.SessionAttendanceJoinCount,
		LeaveCount:           m.SessionAttendanceLeaveCount,
		FirstJoinTime:        m.SessionAttendanceFirstJoinTime,
		LastLeaveTime:        m.SessionAttendanceLastLeaveTime,
		TotalDurationMinutes: m.SessionAttendanceTotalDurationMinutes,
		Percentage:           m.SessionAttendancePercentage,
		IsCalculated:         m.SessionAttendanceIsCalculated,
		Cycles:               cycles,
	}
}

func ToAttendanceResponses(rows []model.SessionAttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToAttendanceResponse(r))
	}
	return out
}
