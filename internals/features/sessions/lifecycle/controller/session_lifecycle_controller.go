package controller

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"halaqahku_backend/internals/features/sessions/lifecycle/dto"
	"halaqahku_backend/internals/features/sessions/lifecycle/model"
	"halaqahku_backend/internals/features/sessions/lifecycle/service"
	helper "halaqahku_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validateLifecycle = validator.New()

// Transitioner = operasi state machine yang diekspos ke admin.
type Transitioner interface {
	TransitionToOngoing(ctx context.Context, s model.Session) (bool, error)
	TransitionToCompleted(ctx context.Context, s model.Session) (bool, error)
	TransitionToCancelled(ctx context.Context, s model.Session, reason *string, cancelledBy *uuid.UUID) (bool, error)
}

type BatchRunner interface {
	RunDue(ctx context.Context, f service.Filter, dryRun bool) (service.BatchResult, error)
}

type SessionLifecycleController struct {
	Store   service.SessionStore
	Machine Transitioner
	Batch   BatchRunner
	Log     *slog.Logger
}

func NewSessionLifecycleController(store service.SessionStore, machine Transitioner, batch BatchRunner, logger *slog.Logger) *SessionLifecycleController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionLifecycleController{Store: store, Machine: machine, Batch: batch, Log: logger}
}

// academy_ids dari token; kosong = tidak dibatasi (token owner/service)
func allowedAcademy(c *fiber.Ctx, academyID uuid.UUID) bool {
	ids, ok := c.Locals("academy_ids").([]string)
	if !ok || len(ids) == 0 {
		return true
	}
	return slices.Contains(ids, academyID.String())
}

func (ctl *SessionLifecycleController) loadSession(c *fiber.Ctx) (model.Session, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "id sesi tidak valid")
	}
	rec, err := ctl.Store.FindByID(c.UserContext(), id)
	if errors.Is(err, service.ErrSessionNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	if err != nil {
		ctl.Log.ErrorContext(c.UserContext(), "gagal ambil sesi", "session_id", id, "err", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	if !allowedAcademy(c, rec.TutoringSessionAcademyID) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	s, err := model.Adapt(rec)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return s, nil
}

func (ctl *SessionLifecycleController) respondTransition(c *fiber.Ctx, s model.Session, ok bool, err error) error {
	if err != nil {
		ctl.Log.ErrorContext(c.UserContext(), "transisi gagal", "session_id", s.ID(), "err", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses transisi sesi")
	}
	body := dto.TransitionResponse{Transitioned: ok, Session: dto.ToSessionResponse(s)}
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":    false,
			"message":    "Transisi tidak berlaku untuk status sesi saat ini",
			"error_code": "CONFLICT",
			"data":       body,
		})
	}
	return helper.JsonOK(c, "Status sesi diperbarui", body)
}

// GET /sessions/:id
func (ctl *SessionLifecycleController) GetSession(c *fiber.Ctx) error {
	s, err := ctl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToSessionResponse(s))
}

// POST /sessions/:id/start
func (ctl *SessionLifecycleController) Start(c *fiber.Ctx) error {
	s, err := ctl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ok, err := ctl.Machine.TransitionToOngoing(c.UserContext(), s)
	return ctl.respondTransition(c, s, ok, err)
}

// POST /sessions/:id/complete
func (ctl *SessionLifecycleController) Complete(c *fiber.Ctx) error {
	s, err := ctl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ok, err := ctl.Machine.TransitionToCompleted(c.UserContext(), s)
	return ctl.respondTransition(c, s, ok, err)
}

// POST /sessions/:id/cancel
func (ctl *SessionLifecycleController) Cancel(c *fiber.Ctx) error {
	var req dto.CancelSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := validateLifecycle.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFieldErrors(err))
	}

	s, err := ctl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var actor *uuid.UUID
	if uid, ok := helper.GetUserUUID(c); ok {
		actor = &uid
	}
	ok, err := ctl.Machine.TransitionToCancelled(c.UserContext(), s, req.Reason, actor)
	return ctl.respondTransition(c, s, ok, err)
}

// POST /sessions/status/run?dry_run=&academy_id=&kind=&limit=
func (ctl *SessionLifecycleController) RunBatch(c *fiber.Ctx) error {
	var q dto.RunBatchQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query tidak valid")
	}
	if err := validateLifecycle.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFieldErrors(err))
	}

	f := service.Filter{Limit: q.Limit}
	if q.AcademyID != nil {
		id := uuid.MustParse(*q.AcademyID)
		if !allowedAcademy(c, id) {
			return helper.JsonError(c, fiber.StatusForbidden, "Academy di luar scope token")
		}
		f.AcademyID = &id
	}
	if q.Kind != nil {
		k := model.SessionKind(*q.Kind)
		f.Kind = &k
	}

	res, err := ctl.Batch.RunDue(c.UserContext(), f, q.DryRun)
	if err != nil {
		ctl.Log.ErrorContext(c.UserContext(), "batch manual gagal", "err", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menjalankan batch status sesi")
	}
	return helper.JsonOK(c, "Batch status sesi selesai", res)
}
