package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"halaqahku_backend/internals/features/sessions/settings/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Struktur sesuai kolom session_settings; field kosong = ikut default instalasi.
type SessionSettingSeed struct {
	AcademyID             string `json:"academy_id"`
	Kind                  string `json:"kind"`
	PreparationMinutes    *int   `json:"preparation_minutes"`
	EarlyJoinMinutes      *int   `json:"early_join_minutes"`
	GracePeriodMinutes    *int   `json:"grace_period_minutes"`
	BufferMinutes         *int   `json:"buffer_minutes"`
	MaxFutureHours        *int   `json:"max_future_hours"`
	MaxPastHours          *int   `json:"max_past_hours"`
	MaxFutureHoursOngoing *int   `json:"max_future_hours_ongoing"`
}

func SeedSessionSettingsFromJSON(db *gorm.DB, log *slog.Logger, filePath string) error {
	log.Info("membaca file seed", "path", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca file seed: %w", err)
	}
	rows, err := decodeSessionSettings(file)
	if err != nil {
		return err
	}

	inserted := 0
	for _, row := range rows {
		// baris yang sudah ada (academy, kind) dilewati
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			log.Warn("gagal insert session_setting", "academy_id", row.SessionSettingAcademyID, "kind", row.SessionSettingKind, "err", res.Error)
			continue
		}
		inserted += int(res.RowsAffected)
	}
	log.Info("seed session_settings selesai", "total", len(rows), "inserted", inserted)
	return nil
}

func decodeSessionSettings(raw []byte) ([]model.SessionSettingModel, error) {
	var seeds []SessionSettingSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	out := make([]model.SessionSettingModel, 0, len(seeds))
	for i, s := range seeds {
		academyID, err := uuid.Parse(s.AcademyID)
		if err != nil {
			return nil, fmt.Errorf("seed #%d: academy_id tidak valid: %w", i, err)
		}
		kind := s.Kind
		if kind == "" {
			kind = model.KindAll
		}
		switch kind {
		case model.KindAll, "individual", "circle", "course":
		default:
			return nil, fmt.Errorf("seed #%d: kind %q tidak dikenal", i, kind)
		}
		out = append(out, model.SessionSettingModel{
			SessionSettingAcademyID:             academyID,
			SessionSettingKind:                  kind,
			SessionSettingPreparationMinutes:    s.PreparationMinutes,
			SessionSettingEarlyJoinMinutes:      s.EarlyJoinMinutes,
			SessionSettingGracePeriodMinutes:    s.GracePeriodMinutes,
			SessionSettingBufferMinutes:         s.BufferMinutes,
			SessionSettingMaxFutureHours:        s.MaxFutureHours,
			SessionSettingMaxPastHours:          s.MaxPastHours,
			SessionSettingMaxFutureHoursOngoing: s.MaxFutureHoursOngoing,
		})
	}
	return out, nil
}
