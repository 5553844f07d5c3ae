package service

import "math"

// MaxPerPage caps every paginated listing.
const MaxPerPage = 100

// maxPage keeps (page-1)*perPage far from int overflow.
const maxPage = math.MaxInt32

// Pagination 描述分页列表的元信息，字段名与前端约定一致。
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewPagination derives page counts for total rows split into perPage pages.
func NewPagination(page, perPage int, total int64) Pagination {
	page = normalizePage(page)
	perPage = normalizePerPage(perPage, 1)
	totalPages := calculateTotalPages(total, perPage)
	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

func (p Pagination) offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
