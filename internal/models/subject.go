package models

import "time"

// SubjectCategory separates general education from major subjects.
type SubjectCategory string

const (
	SubjectCategoryGeneral SubjectCategory = "GENERAL"
	SubjectCategoryMajor   SubjectCategory = "MAJOR"
)

// Subject represents an academic subject offered by a program.
type Subject struct {
	ID          string          `db:"id" json:"id"`
	Code        string          `db:"code" json:"code"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Category    SubjectCategory `db:"category" json:"category"`
	Program     string          `db:"program" json:"program"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
