package controller

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"time"

	"halaqahku_backend/internals/features/sessions/attendance/dto"
	"halaqahku_backend/internals/features/sessions/attendance/model"
	"halaqahku_backend/internals/features/sessions/attendance/service"
	sessionmodel "halaqahku_backend/internals/features/sessions/lifecycle/model"
	lsvc "halaqahku_backend/internals/features/sessions/lifecycle/service"
	helper "halaqahku_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validateAttendance = validator.New()

type LedgerService interface {
	RecordJoin(ctx context.Context, s sessionmodel.Session, participantID uuid.UUID, ev service.Event) bool
	RecordLeave(ctx context.Context, s sessionmodel.Session, participantID uuid.UUID, ev service.Event) bool
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.SessionAttendanceModel, error)
}

// OngoingStarter: join pertama yang memenuhi window langsung men-start sesi.
type OngoingStarter interface {
	ShouldTransitionToOngoing(ctx context.Context, s sessionmodel.Session) (bool, error)
	TransitionToOngoing(ctx context.Context, s sessionmodel.Session) (bool, error)
}

type SessionFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*sessionmodel.TutoringSessionModel, error)
}

type AttendanceController struct {
	Sessions SessionFinder
	Ledger   LedgerService
	Starter  OngoingStarter
	Log      *slog.Logger
}

func NewAttendanceController(sessions SessionFinder, ledger LedgerService, starter OngoingStarter, logger *slog.Logger) *AttendanceController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceController{Sessions: sessions, Ledger: ledger, Starter: starter, Log: logger}
}

func (ctl *AttendanceController) findSession(ctx context.Context, id uuid.UUID) (sessionmodel.Session, error) {
	rec, err := ctl.Sessions.FindByID(ctx, id)
	if errors.Is(err, lsvc.ErrSessionNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
	}
	if err != nil {
		ctl.Log.ErrorContext(ctx, "gagal ambil sesi", "session_id", id, "err", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	s, err := sessionmodel.Adapt(rec)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return s, nil
}

// parseEvent: body → (session, participant, event). Error sudah berupa *fiber.Error.
func (ctl *AttendanceController) parseEvent(c *fiber.Ctx) (sessionmodel.Session, uuid.UUID, service.Event, error) {
	var req dto.ParticipantEventRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, uuid.Nil, service.Event{}, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateAttendance.Struct(&req); err != nil {
		return nil, uuid.Nil, service.Event{}, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	ev, err := service.NewEvent(req.Timestamp, req.EventID, req.ParticipantSessionID)
	if err != nil {
		return nil, uuid.Nil, service.Event{}, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	sid := uuid.MustParse(req.SessionID)
	pid := uuid.MustParse(req.ParticipantID)
	s, err := ctl.findSession(c.UserContext(), sid)
	if err != nil {
		return nil, uuid.Nil, service.Event{}, err
	}
	return s, pid, ev, nil
}

// POST /webhooks/attendance/join
func (ctl *AttendanceController) Join(c *fiber.Ctx) error {
	s, pid, ev, err := ctl.parseEvent(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()

	recorded := ctl.Ledger.RecordJoin(ctx, s, pid, ev)
	if recorded && ctl.Starter != nil && s.Status() == sessionmodel.SessionReady {
		if should, err := ctl.Starter.ShouldTransitionToOngoing(ctx, s); err != nil {
			ctl.Log.ErrorContext(ctx, "cek ongoing setelah join gagal", "session_id", s.ID(), "err", err)
		} else if should {
			if _, err := ctl.Starter.TransitionToOngoing(ctx, s); err != nil {
				ctl.Log.ErrorContext(ctx, "transisi ongoing setelah join gagal", "session_id", s.ID(), "err", err)
			}
		}
	}

	return helper.JsonAccepted(c, "join diterima", dto.ParticipantEventResponse{
		Recorded:      recorded,
		SessionID:     s.ID(),
		ParticipantID: pid,
		SessionStatus: s.Status(),
	})
}

// POST /webhooks/attendance/leave
func (ctl *AttendanceController) Leave(c *fiber.Ctx) error {
	s, pid, ev, err := ctl.parseEvent(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	recorded := ctl.Ledger.RecordLeave(c.UserContext(), s, pid, ev)
	return helper.JsonAccepted(c, "leave diterima", dto.ParticipantEventResponse{
		Recorded:      recorded,
		SessionID:     s.ID(),
		ParticipantID: pid,
		SessionStatus: s.Status(),
	})
}

// GET /sessions/:id/attendance
func (ctl *AttendanceController) ListBySession(c *fiber.Ctx) error {
	sid, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id sesi tidak valid")
	}
	s, err := ctl.findSession(c.UserContext(), sid)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if ids, ok := c.Locals("academy_ids").([]string); ok && len(ids) > 0 && !slices.Contains(ids, s.AcademyID().String()) {
		return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
	}

	rows, err := ctl.Ledger.ListBySession(c.UserContext(), sid)
	if err != nil {
		ctl.Log.ErrorContext(c.UserContext(), "gagal ambil attendance", "session_id", sid, "err", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil attendance")
	}
	// teacher dulu, lalu urut waktu join pertama
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := roleRank(rows[i].SessionAttendanceRole), roleRank(rows[j].SessionAttendanceRole)
		if ri != rj {
			return ri < rj
		}
		return joinedBefore(rows[i].SessionAttendanceFirstJoinTime, rows[j].SessionAttendanceFirstJoinTime)
	})

	p := helper.ParsePage(c, helper.AdminPageOpts)
	start, end := p.Window(len(rows))
	return helper.JsonPaged(c, "ok", dto.ToAttendanceResponses(rows[start:end]), helper.BuildPageMeta(len(rows), p))
}

func roleRank(r model.ParticipantRole) int {
	switch r {
	case model.RoleTeacher:
		return 0
	case model.RoleLearner:
		return 1
	}
	return 2
}

func joinedBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return a.Before(*b)
}
