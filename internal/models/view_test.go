package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewParamsChangesResetPage(t *testing.T) {
	base := DefaultViewParams().WithPage(3)
	assert.Equal(t, 3, base.Page)

	assert.Equal(t, 0, base.WithDepartment(DepartmentCSE).Page)
	assert.Equal(t, 0, base.WithYear(YearSecond).Page)
	assert.Equal(t, 0, base.WithSearch("ravi").Page)
	assert.Equal(t, 0, base.WithSort(SortByCGPA, SortDesc).Page)
	assert.Equal(t, 0, base.WithPageSize(25).Page)
	assert.Equal(t, 3, base.Page, "helpers must not mutate the receiver")
}

func TestViewParamsResetFiltersKeepsSort(t *testing.T) {
	p := DefaultViewParams().
		WithSort(SortByCGPA, SortDesc).
		WithDepartment(DepartmentECE).
		WithYear(YearFourth).
		WithSearch("kumar").
		WithPage(2)

	reset := p.ResetFilters()
	assert.Equal(t, Department(""), reset.Department)
	assert.Zero(t, reset.Year)
	assert.Empty(t, reset.Search)
	assert.Zero(t, reset.Page)
	assert.Equal(t, SortByCGPA, reset.SortKey)
	assert.Equal(t, SortDesc, reset.SortDirection)
}

func TestViewParamsNormalized(t *testing.T) {
	p := ViewParams{SortKey: "CGPA", SortDirection: "DESC", Page: -2}.Normalized()
	assert.Equal(t, SortByCGPA, p.SortKey)
	assert.Equal(t, SortDesc, p.SortDirection)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Zero(t, p.Page)

	p = ViewParams{SortKey: "rollNumber", SortDirection: "sideways", PageSize: 5}.Normalized()
	assert.Equal(t, SortByName, p.SortKey)
	assert.Equal(t, SortAsc, p.SortDirection)
	assert.Equal(t, 5, p.PageSize)
}

func TestDepartmentValid(t *testing.T) {
	for _, d := range Departments {
		assert.True(t, d.Valid())
	}
	assert.False(t, Department("cse").Valid())
	assert.False(t, Department("").Valid())
}
