// file: internals/helpers/pagination.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const DefaultPage = 1

type PageOptions struct {
	DefaultPerPage int
	MaxPerPage     int
}

// Preset untuk listing admin
var AdminPageOpts = PageOptions{DefaultPerPage: 50, MaxPerPage: 500}

type PageParams struct {
	Page    int
	PerPage int
}

// ParsePage membaca ?page= & ?per_page= (alias ?limit=) dari query.
func ParsePage(c *fiber.Ctx, opt PageOptions) PageParams {
	page, err := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	perRaw := strings.TrimSpace(c.Query("per_page"))
	if perRaw == "" {
		perRaw = strings.TrimSpace(c.Query("limit"))
	}
	per := opt.DefaultPerPage
	if n, err := strconv.Atoi(perRaw); err == nil && n > 0 {
		per = n
	}
	if opt.MaxPerPage > 0 && per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}
	if per < 1 {
		per = 1
	}
	return PageParams{Page: page, PerPage: per}
}

func (p PageParams) Offset() int { return (p.Page - 1) * p.PerPage }

// Window mengembalikan [start, end) untuk slice sepanjang total.
func (p PageParams) Window(total int) (start, end int) {
	start = min(p.Offset(), total)
	end = min(start+p.PerPage, total)
	return start, end
}

// Meta untuk response
type PageMeta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func BuildPageMeta(total int, p PageParams) PageMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.PerPage - 1) / p.PerPage
	}
	return PageMeta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    p.Page > 1,
		HasNext:    p.Page < totalPages,
	}
}
