package models

import "time"

// ExternalLoad flags a faculty member teaching outside the institution for a term.
type ExternalLoad struct {
	FacultyMemberID string    `db:"faculty_member_id" json:"faculty_member_id"`
	TermID          string    `db:"term_id" json:"term_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
