package domain

import "time"

// Employee is the aggregate for staff records. Salary is carried as a
// fixed-point decimal string constrained to NUMERIC(5,2).
type Employee struct {
	ID         string
	UserID     string
	Title      string
	Experience int
	Salary     string
	Link       string
	ImagePath  *string

	// Relation ids are always populated. The full Tag/Department slices are
	// loaded only for single-record retrieval.
	TagIDs        []string
	DepartmentIDs []string
	Tags          []Tag
	Departments   []Department

	CreatedAt time.Time
	UpdatedAt time.Time
}
