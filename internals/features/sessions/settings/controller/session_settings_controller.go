package controller

import (
	"context"
	"log/slog"
	"slices"

	"halaqahku_backend/internals/features/sessions/settings/dto"
	"halaqahku_backend/internals/features/sessions/settings/model"
	helper "halaqahku_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validateSettings = validator.New()

type SettingsRepository interface {
	List(ctx context.Context, academyID uuid.UUID) ([]model.SessionSettingModel, error)
	Upsert(ctx context.Context, row *model.SessionSettingModel) error
}

// CacheClearer dipenuhi oleh *service.Provider.
type CacheClearer interface {
	ClearCache()
}

type SessionSettingsController struct {
	Repo  SettingsRepository
	Cache CacheClearer
	Log   *slog.Logger
}

func NewSessionSettingsController(repo SettingsRepository, cache CacheClearer, logger *slog.Logger) *SessionSettingsController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionSettingsController{Repo: repo, Cache: cache, Log: logger}
}

func inScope(c *fiber.Ctx, academyID uuid.UUID) bool {
	ids, ok := c.Locals("academy_ids").([]string)
	return !ok || len(ids) == 0 || slices.Contains(ids, academyID.String())
}

// GET /settings/sessions?academy_id=
func (ctl *SessionSettingsController) List(c *fiber.Ctx) error {
	academyID, err := uuid.Parse(c.Query("academy_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "academy_id wajib berupa UUID")
	}
	if !inScope(c, academyID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Academy di luar scope token")
	}
	rows, err := ctl.Repo.List(c.UserContext(), academyID)
	if err != nil {
		ctl.Log.ErrorContext(c.UserContext(), "gagal ambil session_settings", "academy_id", academyID, "err", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengaturan sesi")
	}
	return helper.JsonOK(c, "ok", dto.ToSessionSettingResponses(rows))
}

// PUT /settings/sessions
func (ctl *SessionSettingsController) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertSessionSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateSettings.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFieldErrors(err))
	}
	row := req.ToModel()
	if !inScope(c, row.SessionSettingAcademyID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Academy di luar scope token")
	}

	if err := ctl.Repo.Upsert(c.UserContext(), row); err != nil {
		ctl.Log.ErrorContext(c.UserContext(), "gagal simpan session_settings", "academy_id", row.SessionSettingAcademyID, "kind", row.SessionSettingKind, "err", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan pengaturan sesi")
	}
	// threshold baru berlaku di tick batch berikutnya
	if ctl.Cache != nil {
		ctl.Cache.ClearCache()
	}
	ctl.Log.InfoContext(c.UserContext(), "session_settings diperbarui", "academy_id", row.SessionSettingAcademyID, "kind", row.SessionSettingKind)
	return helper.JsonOK(c, "Pengaturan sesi disimpan", dto.ToSessionSettingResponses([]model.SessionSettingModel{*row})[0])
}
