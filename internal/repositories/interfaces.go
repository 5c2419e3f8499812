package repositories

import (
	"math"
	"time"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	ChapterID       *uint  `json:"chapter_id"`
	Query           string `json:"query"` // name or email
	IncludeArchived bool   `json:"include_archived"`
	Limit           int    `json:"limit"`
	Offset          int    `json:"offset"`
	SortBy          string `json:"sort_by"`    // "first_name", "last_name", "email", "created_at"
	SortOrder       string `json:"sort_order"` // "asc", "desc"
}

type StudentFilters struct {
	ChapterID       *uint  `json:"chapter_id"`
	Query           string `json:"query"`
	IncludeArchived bool   `json:"include_archived"`
	Limit           int    `json:"limit"`
	Offset          int    `json:"offset"`
	SortBy          string `json:"sort_by"`
	SortOrder       string `json:"sort_order"`
}

// SessionFilters narrows the session list of a chapter. The date range is
// only applied when both bounds are set, and the completed and signed-off
// flags only filter when true.
type SessionFilters struct {
	ChapterID   uint       `json:"chapter_id"`
	MentorID    *uint      `json:"mentor_id"`
	StudentID   *uint      `json:"student_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsCompleted bool       `json:"is_completed"`
	IsSignedOff bool       `json:"is_signed_off"`
	PageNumber  int        `json:"page_number"` // zero based
	PageSize    int        `json:"page_size"`
}

const (
	DefaultSessionPageSize = 10
	MaxSessionPageSize     = 100

	// maxSessionOffset keeps page * size well inside the range postgres
	// accepts for OFFSET
	maxSessionOffset = math.MaxInt32
)

// Pagination returns the limit and offset the filter asks for. The size is
// clamped to MaxSessionPageSize and the page to the last one whose offset
// still fits.
func (f SessionFilters) Pagination() (limit, offset int) {
	limit = f.pageSize()
	return limit, f.Page() * limit
}

// Page is the zero-based page Pagination actually serves
func (f SessionFilters) Page() int {
	return min(max(f.PageNumber, 0), maxSessionOffset/f.pageSize())
}

func (f SessionFilters) pageSize() int {
	switch {
	case f.PageSize <= 0:
		return DefaultSessionPageSize
	case f.PageSize > MaxSessionPageSize:
		return MaxSessionPageSize
	}
	return f.PageSize
}
