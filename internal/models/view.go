package models

import "strings"

// SortKey selects the field used to order the derived view.
type SortKey string

const (
	SortByName SortKey = "name"
	SortByCGPA SortKey = "cgpa"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultPageSize is used whenever a non-positive page size is requested.
const DefaultPageSize = 10

// ViewParams describes how the collection is projected for display. The zero
// value of Department and Year means the filter is unset. Page is 0-based.
//
// The With* helpers return a copy; every change other than WithPage moves the
// view back to the first page.
type ViewParams struct {
	Department    Department
	Year          int
	Search        string
	SortKey       SortKey
	SortDirection SortDirection
	Page          int
	PageSize      int
}

// DefaultViewParams returns name-ascending order on the first page.
func DefaultViewParams() ViewParams {
	return ViewParams{SortKey: SortByName, SortDirection: SortAsc, PageSize: DefaultPageSize}
}

// WithDepartment sets or clears (empty) the department filter.
func (p ViewParams) WithDepartment(d Department) ViewParams {
	p.Department = d
	p.Page = 0
	return p
}

// WithYear sets or clears (0) the year filter.
func (p ViewParams) WithYear(year int) ViewParams {
	p.Year = year
	p.Page = 0
	return p
}

// WithSearch sets the free-text query.
func (p ViewParams) WithSearch(query string) ViewParams {
	p.Search = query
	p.Page = 0
	return p
}

// WithSort sets the sort key and direction.
func (p ViewParams) WithSort(key SortKey, dir SortDirection) ViewParams {
	p.SortKey = key
	p.SortDirection = dir
	p.Page = 0
	return p
}

// WithPageSize changes the page size.
func (p ViewParams) WithPageSize(size int) ViewParams {
	p.PageSize = size
	p.Page = 0
	return p
}

// WithPage moves to the given page without touching any other parameter.
func (p ViewParams) WithPage(page int) ViewParams {
	p.Page = page
	return p
}

// ResetFilters clears the department, year and search filters. Sorting is kept.
func (p ViewParams) ResetFilters() ViewParams {
	p.Department = ""
	p.Year = 0
	p.Search = ""
	p.Page = 0
	return p
}

// Normalized fills defaults and clamps out-of-range values.
func (p ViewParams) Normalized() ViewParams {
	switch SortKey(strings.ToLower(string(p.SortKey))) {
	case SortByCGPA:
		p.SortKey = SortByCGPA
	default:
		p.SortKey = SortByName
	}
	if SortDirection(strings.ToLower(string(p.SortDirection))) == SortDesc {
		p.SortDirection = SortDesc
	} else {
		p.SortDirection = SortAsc
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

// Pagination describes the page returned by a view.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// ViewResult is a page of the derived view plus the counts needed to render
// "showing X of Y filtered (Z total)".
type ViewResult struct {
	Students        []Student  `json:"students"`
	Pagination      Pagination `json:"pagination"`
	CollectionCount int        `json:"collection_count"`
	Params          ViewParams `json:"-"`
}
