package service

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/student-records/internal/models"
	"github.com/noah-isme/student-records/pkg/fuzzy"
)

// DeriveView projects records through the department filter, year filter,
// fuzzy search, stable sort and pagination described by params. It returns the
// requested page and the number of records before pagination. records is not
// modified.
func DeriveView(records []models.Student, params models.ViewParams) ([]models.Student, int) {
	params = params.Normalized()
	ordered := FilterAndSort(records, params)
	return Paginate(ordered, params.Page, params.PageSize), len(ordered)
}

// FilterAndSort applies every view stage except pagination.
func FilterAndSort(records []models.Student, params models.ViewParams) []models.Student {
	params = params.Normalized()
	query := strings.TrimSpace(params.Search)

	out := make([]models.Student, 0, len(records))
	for _, s := range records {
		if params.Department != "" && s.Department != params.Department {
			continue
		}
		if params.Year != 0 && s.Year != params.Year {
			continue
		}
		if query != "" && !fuzzy.Match(query, s.RollNumber) && !fuzzy.Match(query, s.Name) {
			continue
		}
		out = append(out, s)
	}

	cmp := comparator(params.SortKey)
	if params.SortDirection == models.SortDesc {
		asc := cmp
		cmp = func(a, b models.Student) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

// Paginate returns the contiguous slice [page*size, page*size+size) of items
// clipped to bounds. Non-positive sizes fall back to the default page size.
func Paginate(items []models.Student, page, size int) []models.Student {
	if size <= 0 {
		size = models.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	start := page * size
	if start >= len(items) {
		return []models.Student{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// TotalPages returns how many pages of size are needed for total items.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = models.DefaultPageSize
	}
	return (total + size - 1) / size
}

func comparator(key models.SortKey) func(a, b models.Student) int {
	if key == models.SortByCGPA {
		return func(a, b models.Student) int {
			switch {
			case a.CGPA < b.CGPA:
				return -1
			case a.CGPA > b.CGPA:
				return 1
			default:
				return 0
			}
		}
	}
	// Collators keep internal buffers, so each derivation gets its own.
	col := collate.New(language.English)
	return func(a, b models.Student) int {
		return col.CompareString(a.Name, b.Name)
	}
}
