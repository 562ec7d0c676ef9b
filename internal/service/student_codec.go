package service

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/student-records/internal/models"
)

// EncodeStudents serializes the collection as a JSON array of
// {id, rollNumber, name, department, year, cgpa, dateAdded} objects.
func EncodeStudents(students []models.Student) ([]byte, error) {
	if students == nil {
		students = []models.Student{}
	}
	payload, err := json.Marshal(students)
	if err != nil {
		return nil, fmt.Errorf("encode students: %w", err)
	}
	return payload, nil
}

// DecodeStudents parses a payload produced by EncodeStudents. A JSON null
// decodes to an empty collection.
func DecodeStudents(payload []byte) ([]models.Student, error) {
	var students []models.Student
	if err := json.Unmarshal(payload, &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}
