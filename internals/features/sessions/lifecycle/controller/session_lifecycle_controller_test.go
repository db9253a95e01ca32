package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"
	"halaqahku_backend/internals/features/sessions/lifecycle/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	rows map[uuid.UUID]*model.TutoringSessionModel
	err  error
}

func (s *stubStore) CompareAndSetStatus(context.Context, uuid.UUID, []model.SessionStatus, model.SessionStatus, service.StatusFields) (bool, error) {
	return false, errors.New("not used")
}

func (s *stubStore) FindByID(_ context.Context, id uuid.UUID) (*model.TutoringSessionModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *stubStore) ListActive(context.Context, service.Filter) ([]*model.TutoringSessionModel, error) {
	return nil, nil
}

type stubMachine struct {
	ok          bool
	err         error
	reason      *string
	cancelledBy *uuid.UUID
}

func (m *stubMachine) TransitionToOngoing(context.Context, model.Session) (bool, error) {
	return m.ok, m.err
}

func (m *stubMachine) TransitionToCompleted(context.Context, model.Session) (bool, error) {
	return m.ok, m.err
}

func (m *stubMachine) TransitionToCancelled(_ context.Context, _ model.Session, reason *string, by *uuid.UUID) (bool, error) {
	m.reason, m.cancelledBy = reason, by
	return m.ok, m.err
}

type stubBatch struct {
	filter service.Filter
	dryRun bool
	err    error
}

func (b *stubBatch) RunDue(_ context.Context, f service.Filter, dryRun bool) (service.BatchResult, error) {
	b.filter, b.dryRun = f, dryRun
	return service.BatchResult{TransitionsToReady: 1, Errors: []service.BatchError{}, DryRun: dryRun}, b.err
}

type testEnv struct {
	app     *fiber.App
	store   *stubStore
	machine *stubMachine
	batch   *stubBatch
	session *model.TutoringSessionModel
	userID  uuid.UUID
}

func newTestEnv(t *testing.T, academyScope ...string) *testEnv {
	t.Helper()
	rec := &model.TutoringSessionModel{
		TutoringSessionID:          uuid.New(),
		TutoringSessionAcademyID:   uuid.New(),
		TutoringSessionKind:        model.SessionKindCircle,
		TutoringSessionStatus:      model.SessionReady,
		TutoringSessionScheduledAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		TutoringSessionTeacherID:   uuid.New(),
	}
	env := &testEnv{
		store:   &stubStore{rows: map[uuid.UUID]*model.TutoringSessionModel{rec.TutoringSessionID: rec}},
		machine: &stubMachine{ok: true},
		batch:   &stubBatch{},
		session: rec,
		userID:  uuid.New(),
	}
	ctl := NewSessionLifecycleController(env.store, env.machine, env.batch, slog.New(slog.NewTextHandler(io.Discard, nil)))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", env.userID.String())
		if len(academyScope) > 0 {
			c.Locals("academy_ids", academyScope)
		}
		return c.Next()
	})
	app.Get("/sessions/:id", ctl.GetSession)
	app.Post("/sessions/status/run", ctl.RunBatch)
	app.Post("/sessions/:id/start", ctl.Start)
	app.Post("/sessions/:id/complete", ctl.Complete)
	app.Post("/sessions/:id/cancel", ctl.Cancel)
	env.app = app
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestGetSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	code, body := env.do(t, http.MethodGet, "/sessions/"+env.session.TutoringSessionID.String(), "")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "ready", data["tutoring_session_status"])

	code, _ = env.do(t, http.MethodGet, "/sessions/bukan-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodGet, "/sessions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetSession_OutOfAcademyScope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, uuid.NewString())
	code, _ := env.do(t, http.MethodGet, "/sessions/"+env.session.TutoringSessionID.String(), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTransitions(t *testing.T) {
	t.Parallel()

	for _, action := range []string{"start", "complete", "cancel"} {
		t.Run(action, func(t *testing.T) {
			env := newTestEnv(t)
			path := "/sessions/" + env.session.TutoringSessionID.String() + "/" + action

			code, body := env.do(t, http.MethodPost, path, "")
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, true, body["data"].(map[string]any)["transitioned"])

			env.machine.ok = false
			code, body = env.do(t, http.MethodPost, path, "")
			assert.Equal(t, http.StatusConflict, code)
			assert.Equal(t, "CONFLICT", body["error_code"])

			env.machine.err = errors.New("db down")
			code, _ = env.do(t, http.MethodPost, path, "")
			assert.Equal(t, http.StatusInternalServerError, code)
		})
	}
}

func TestCancel_PassesReasonAndActor(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := "/sessions/" + env.session.TutoringSessionID.String() + "/cancel"

	code, _ := env.do(t, http.MethodPost, path, `{"reason":"guru sakit"}`)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.machine.reason)
	assert.Equal(t, "guru sakit", *env.machine.reason)
	require.NotNil(t, env.machine.cancelledBy)
	assert.Equal(t, env.userID, *env.machine.cancelledBy)

	code, _ = env.do(t, http.MethodPost, path, `{"reason":"`+strings.Repeat("x", 501)+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	academy := uuid.New()

	code, body := env.do(t, http.MethodPost, "/sessions/status/run?dry_run=true&kind=course&limit=50&academy_id="+academy.String(), "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.batch.dryRun)
	require.NotNil(t, env.batch.filter.Kind)
	assert.Equal(t, model.SessionKindCourse, *env.batch.filter.Kind)
	require.NotNil(t, env.batch.filter.AcademyID)
	assert.Equal(t, academy, *env.batch.filter.AcademyID)
	assert.Equal(t, 50, env.batch.filter.Limit)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["transitions_to_ready"])
	assert.Equal(t, true, data["dry_run"])

	code, _ = env.do(t, http.MethodPost, "/sessions/status/run?kind=webinar", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	env.batch.err = errors.New("db down")
	code, _ = env.do(t, http.MethodPost, "/sessions/status/run", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestRunBatch_AcademyOutOfScope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, uuid.NewString())
	code, _ := env.do(t, http.MethodPost, "/sessions/status/run?academy_id="+uuid.NewString(), "")
	assert.Equal(t, http.StatusForbidden, code)
}
