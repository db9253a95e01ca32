package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"halaqahku_backend/internals/features/sessions/settings/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows []model.SessionSettingModel
	err  error
}

func (m *memRepo) List(_ context.Context, academyID uuid.UUID) ([]model.SessionSettingModel, error) {
	var out []model.SessionSettingModel
	for _, r := range m.rows {
		if r.SessionSettingAcademyID == academyID {
			out = append(out, r)
		}
	}
	return out, m.err
}

func (m *memRepo) Upsert(_ context.Context, row *model.SessionSettingModel) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *row)
	return nil
}

type countingCache struct{ cleared int }

func (c *countingCache) ClearCache() { c.cleared++ }

func newSettingsApp(repo *memRepo, cache *countingCache, scope ...string) *fiber.App {
	ctl := NewSessionSettingsController(repo, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if len(scope) > 0 {
			c.Locals("academy_ids", scope)
		}
		return c.Next()
	})
	app.Get("/settings/sessions", ctl.List)
	app.Put("/settings/sessions", ctl.Upsert)
	return app
}

func put(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/settings/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestUpsert_ClearsProviderCache(t *testing.T) {
	t.Parallel()

	repo, cache := &memRepo{}, &countingCache{}
	app := newSettingsApp(repo, cache)
	academy := uuid.NewString()

	code := put(t, app, `{"academy_id":"`+academy+`","kind":"individual","grace_period_minutes":10}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, cache.cleared)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "individual", repo.rows[0].SessionSettingKind)
	assert.Equal(t, 10, *repo.rows[0].SessionSettingGracePeriodMinutes)

	code = put(t, app, `{"academy_id":"`+academy+`"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.KindAll, repo.rows[1].SessionSettingKind)
}

func TestUpsert_Rejects(t *testing.T) {
	t.Parallel()

	repo, cache := &memRepo{}, &countingCache{}
	scoped := uuid.NewString()
	app := newSettingsApp(repo, cache, scoped)

	assert.Equal(t, http.StatusUnprocessableEntity, put(t, app, `{"academy_id":"`+scoped+`","kind":"webinar"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, put(t, app, `{"academy_id":"`+scoped+`","buffer_minutes":-5}`))
	assert.Equal(t, http.StatusForbidden, put(t, app, `{"academy_id":"`+uuid.NewString()+`"}`))

	repo.err = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, put(t, app, `{"academy_id":"`+scoped+`"}`))
	assert.Zero(t, cache.cleared)
}

func TestList(t *testing.T) {
	t.Parallel()

	academy := uuid.New()
	repo := &memRepo{rows: []model.SessionSettingModel{
		{SessionSettingAcademyID: academy, SessionSettingKind: model.KindAll},
		{SessionSettingAcademyID: uuid.New(), SessionSettingKind: model.KindAll},
	}}
	app := newSettingsApp(repo, &countingCache{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/settings/sessions?academy_id="+academy.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/settings/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
