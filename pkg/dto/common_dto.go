package dto

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// PageQuery is bound from ?page=&limit=. Page accepts a number or "last".
type PageQuery struct {
	Page  string `form:"page"`
	Limit int    `form:"limit"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

// Normalize clamps the limit and parses the page. last is true for page=last,
// which can only be resolved once the total is known.
func (q PageQuery) Normalize() (page, limit int, last bool) {
	limit = q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	raw := strings.TrimSpace(strings.ToLower(q.Page))
	if raw == "last" {
		return 0, limit, true
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		page = 1
	}
	return page, limit, false
}

// TotalPages never returns less than one so that page=last always lands on a valid page.
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 1
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

func NewMeta(page, limit int, total int64) PaginationMeta {
	return PaginationMeta{
		CurrentPage: page,
		TotalPages:  TotalPages(total, limit),
		TotalItems:  total,
		Limit:       limit,
	}
}
