package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/student-records/internal/models"
	appErrors "github.com/noah-isme/student-records/pkg/errors"
	"github.com/noah-isme/student-records/pkg/export"
)

var studentColumns = []export.Column{
	{Key: "id", Title: "ID", Width: 0.6, Align: "R"},
	{Key: "rollNumber", Title: "Roll Number", Width: 1.6},
	{Key: "name", Title: "Name", Width: 2.4},
	{Key: "department", Title: "Department", Width: 1},
	{Key: "year", Title: "Year", Width: 0.6, Align: "C"},
	{Key: "cgpa", Title: "CGPA", Width: 0.7, Align: "R"},
	{Key: "dateAdded", Title: "Date Added", Width: 1.5},
}

// Export renders every record matching params (ignoring pagination) in the
// requested format, ordered as the view orders them.
func (s *StudentService) Export(params models.ViewParams, format, title string) ([]byte, error) {
	data := StudentDataset(FilterAndSort(s.students, params))

	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case export.FormatCSV:
		out, err = export.NewCSVExporter().Render(data)
	case export.FormatPDF:
		out, err = export.NewPDFExporter().Render(data, title)
	default:
		return nil, appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "unsupported export format"),
			map[string]string{"format": "format must be one of csv, pdf"})
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to export students")
	}
	return out, nil
}

// StudentDataset flattens students into export rows.
func StudentDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"id":         strconv.Itoa(st.ID),
			"rollNumber": st.RollNumber,
			"name":       st.Name,
			"department": string(st.Department),
			"year":       strconv.Itoa(st.Year),
			"cgpa":       strconv.FormatFloat(st.CGPA, 'f', 2, 64),
			"dateAdded":  st.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Columns: studentColumns, Rows: rows}
}
