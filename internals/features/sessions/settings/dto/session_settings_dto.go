// file: internals/features/sessions/settings/dto/session_settings_dto.go
package dto

import (
	"time"

	"halaqahku_backend/internals/features/sessions/settings/model"

	"github.com/google/uuid"
)

// Field nil = hapus override (ikut default instalasi).
type UpsertSessionSettingRequest struct {
	AcademyID             string `json:"academy_id" validate:"required,uuid"`
	Kind                  string `json:"kind" validate:"omitempty,oneof=all individual circle course"`
	PreparationMinutes    *int   `json:"preparation_minutes" validate:"omitempty,min=0,max=1440"`
	EarlyJoinMinutes      *int   `json:"early_join_minutes" validate:"omitempty,min=0,max=1440"`
	GracePeriodMinutes    *int   `json:"grace_period_minutes" validate:"omitempty,min=0,max=1440"`
	BufferMinutes         *int   `json:"buffer_minutes" validate:"omitempty,min=0,max=1440"`
	MaxFutureHours        *int   `json:"max_future_hours" validate:"omitempty,min=0,max=720"`
	MaxPastHours          *int   `json:"max_past_hours" validate:"omitempty,min=0,max=720"`
	MaxFutureHoursOngoing *int   `json:"max_future_hours_ongoing" validate:"omitempty,min=0,max=720"`
}

func (r UpsertSessionSettingRequest) ToModel() *model.SessionSettingModel {
	kind := r.Kind
	if kind == "" {
		kind = model.KindAll
	}
	return &model.SessionSettingModel{
		SessionSettingAcademyID:             uuid.MustParse(r.AcademyID),
		SessionSettingKind:                  kind,
		SessionSettingPreparationMinutes:    r.PreparationMinutes,
		SessionSettingEarlyJoinMinutes:      r.EarlyJoinMinutes,
		SessionSettingGracePeriodMinutes:    r.GracePeriodMinutes,
		SessionSettingBufferMinutes:         r.BufferMinutes,
		SessionSettingMaxFutureHours:        r.MaxFutureHours,
		SessionSettingMaxPastHours:          r.MaxPastHours,
		SessionSettingMaxFutureHoursOngoing: r.MaxFutureHoursOngoing,
	}
}

type SessionSettingResponse struct {
	AcademyID             uuid.UUID `json:"session_setting_academy_id"`
	Kind                  string    `json:"session_setting_kind"`
	PreparationMinutes    *int      `json:"session_setting_preparation_minutes"`
	EarlyJoinMinutes      *int      `json:"session_setting_early_join_minutes"`
	GracePeriodMinutes    *int      `json:"session_setting_grace_period_minutes"`
	BufferMinutes         *int      `json:"session_setting_buffer_minutes"`
	MaxFutureHours        *int      `json:"session_setting_max_future_hours"`
	MaxPastHours          *int      `json:"session_setting_max_past_hours"`
	MaxFutureHoursOngoing *int      `json:"session_setting_max_future_hours_ongoing"`
	UpdatedAt             time.Time `json:"session_setting_updated_at"`
}

func ToSessionSettingResponses(rows []model.SessionSettingModel) []SessionSettingResponse {
	out := make([]SessionSettingResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, SessionSettingResponse{
			AcademyID:             m.SessionSettingAcademyID,
			Kind:                  m.SessionSettingKind,
			PreparationMinutes:    m.SessionSettingPreparationMinutes,
			EarlyJoinMinutes:      m.SessionSettingEarlyJoinMinutes,
			GracePeriodMinutes:    m.SessionSettingGracePeriodMinutes,
			BufferMinutes:         m.SessionSettingBufferMinutes,
			MaxFutureHours:        m.SessionSettingMaxFutureHours,
			MaxPastHours:          m.SessionSettingMaxPastHours,
			MaxFutureHoursOngoing: m.SessionSettingMaxFutureHoursOngoing,
			UpdatedAt:             m.SessionSettingUpdatedAt,
		})
	}
	return out
}
