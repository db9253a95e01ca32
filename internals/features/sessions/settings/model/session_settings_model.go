// file: internals/features/sessions/settings/model/session_settings_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind "all" = berlaku untuk semua jenis sesi di academy tsb.
const KindAll = "all"

// Override threshold per (academy, kind). Kolom NULL = ikut default instalasi.
type SessionSettingModel struct {
	SessionSettingID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:session_setting_id" json:"session_setting_id"`
	SessionSettingAcademyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_session_setting_academy_kind,priority:1;column:session_setting_academy_id" json:"session_setting_academy_id"`
	SessionSettingKind      string    `gorm:"type:varchar(16);not null;default:'all';uniqueIndex:uq_session_setting_academy_kind,priority:2;column:session_setting_kind" json:"session_setting_kind"`

	SessionSettingPreparationMinutes    *int `gorm:"column:session_setting_preparation_minutes" json:"session_setting_preparation_minutes,omitempty"`
	SessionSettingEarlyJoinMinutes      *int `gorm:"column:session_setting_early_join_minutes" json:"session_setting_early_join_minutes,omitempty"`
	SessionSettingGracePeriodMinutes    *int `gorm:"column:session_setting_grace_period_minutes" json:"session_setting_grace_period_minutes,omitempty"`
	SessionSettingBufferMinutes         *int `gorm:"column:session_setting_buffer_minutes" json:"session_setting_buffer_minutes,omitempty"`
	SessionSettingMaxFutureHours        *int `gorm:"column:session_setting_max_future_hours" json:"session_setting_max_future_hours,omitempty"`
	SessionSettingMaxPastHours          *int `gorm:"column:session_setting_max_past_hours" json:"session_setting_max_past_hours,omitempty"`
	SessionSettingMaxFutureHoursOngoing *int `gorm:"column:session_setting_max_future_hours_ongoing" json:"session_setting_max_future_hours_ongoing,omitempty"`

	SessionSettingCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:session_setting_created_at" json:"session_setting_created_at"`
	SessionSettingUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:session_setting_updated_at" json:"session_setting_updated_at"`
}

func (SessionSettingModel) TableName() string { return "session_settings" }
