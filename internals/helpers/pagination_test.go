package helper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	t.Parallel()

	opt := PageOptions{DefaultPerPage: 10, MaxPerPage: 50}
	cases := []struct {
		query string
		want  PageParams
	}{
		{"", PageParams{Page: 1, PerPage: 10}},
		{"?page=3&per_page=20", PageParams{Page: 3, PerPage: 20}},
		{"?limit=5", PageParams{Page: 1, PerPage: 5}},
		{"?per_page=999", PageParams{Page: 1, PerPage: 50}},
		{"?page=-2&per_page=abc", PageParams{Page: 1, PerPage: 10}},
	}
	for _, tc := range cases {
		var got PageParams
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			got = ParsePage(c, opt)
			return nil
		})
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.query)
	}
}

func TestWindowAndMeta(t *testing.T) {
	t.Parallel()

	p := PageParams{Page: 2, PerPage: 3}
	start, end := p.Window(7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	start, end = PageParams{Page: 5, PerPage: 3}.Window(7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)

	meta := BuildPageMeta(7, p)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	assert.Zero(t, BuildPageMeta(0, PageParams{Page: 1, PerPage: 3}).TotalPages)
}
