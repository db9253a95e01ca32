package seeds

import (
	"log/slog"

	settings "halaqahku_backend/internals/seeds/sessions/settings"

	"gorm.io/gorm"
)

// RunAllSeeds dijalankan saat RUN_SEEDS=true; seed idempotent, aman diulang.
func RunAllSeeds(db *gorm.DB, log *slog.Logger) {
	//* Session settings
	if err := settings.SeedSessionSettingsFromJSON(db, log, "internals/seeds/sessions/settings/data_session_settings.json"); err != nil {
		log.Error("seed session_settings gagal", "err", err)
	}
}
