package models

import "time"

// Department identifies the academic department a student belongs to.
type Department string

const (
	DepartmentCSE Department = "CSE"
	DepartmentECE Department = "ECE"
	DepartmentME  Department = "ME"
	DepartmentCE  Department = "CE"
	DepartmentEE  Department = "EE"
)

// Departments lists every supported department in display order.
var Departments = []Department{DepartmentCSE, DepartmentECE, DepartmentME, DepartmentCE, DepartmentEE}

// Valid reports whether d is one of the supported departments.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// Study years.
const (
	YearFirst  = 1
	YearSecond = 2
	YearThird  = 3
	YearFourth = 4
)

// Student represents a learner registered in the collection.
type Student struct {
	ID         int        `json:"id"`
	RollNumber string     `json:"rollNumber"`
	Name       string     `json:"name"`
	Department Department `json:"department"`
	Year       int        `json:"year"`
	CGPA       float64    `json:"cgpa"`
	CreatedAt  time.Time  `json:"dateAdded"`
}

// StudentInput carries the editable fields of a student.
type StudentInput struct {
	RollNumber string     `json:"rollNumber" validate:"required"`
	Name       string     `json:"name" validate:"required"`
	Department Department `json:"department" validate:"required,oneof=CSE ECE ME CE EE"`
	Year       int        `json:"year" validate:"required,min=1,max=4"`
	CGPA       float64    `json:"cgpa" validate:"gte=0,lte=10"`
}
