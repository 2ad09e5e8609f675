package models

import (
	"fmt"
	"time"
)

// OrdinalTerm is the slot of a term within the academic year.
type OrdinalTerm string

const (
	OrdinalFirst  OrdinalTerm = "FIRST"
	OrdinalSecond OrdinalTerm = "SECOND"
	OrdinalSummer OrdinalTerm = "SUMMER"
)

// TermStatus is the scheduling lifecycle state of a term.
type TermStatus string

const (
	TermInitializing      TermStatus = "INITIALIZING"
	TermScheduling        TermStatus = "SCHEDULING"
	TermFeedbackGathering TermStatus = "FEEDBACK_GATHERING"
	TermPublished         TermStatus = "PUBLISHED"
	TermArchived          TermStatus = "ARCHIVED"
)

var termStatusOrder = []TermStatus{
	TermInitializing,
	TermScheduling,
	TermFeedbackGathering,
	TermPublished,
	TermArchived,
}

// Next returns the following status, or false when the term cannot advance.
func (s TermStatus) Next() (TermStatus, bool) {
	for i, status := range termStatusOrder {
		if status == s && i+1 < len(termStatusOrder) {
			return termStatusOrder[i+1], true
		}
	}
	return s, false
}

// Previous returns the preceding status. Initializing and Archived terms cannot regress.
func (s TermStatus) Previous() (TermStatus, bool) {
	if s == TermArchived {
		return s, false
	}
	for i, status := range termStatusOrder {
		if status == s && i > 0 {
			return termStatusOrder[i-1], true
		}
	}
	return s, false
}

// Term is a scheduling period.
type Term struct {
	ID        string      `db:"id" json:"id"`
	StartYear int         `db:"start_year" json:"start_year"`
	Ordinal   OrdinalTerm `db:"ordinal" json:"ordinal"`
	Status    TermStatus  `db:"status" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// Label renders a human readable term name such as "2024-2025 FIRST".
func (t Term) Label() string {
	return fmt.Sprintf("%d-%d %s", t.StartYear, t.StartYear+1, t.Ordinal)
}

// TermFilter narrows term listings.
type TermFilter struct {
	Status    *TermStatus
	StartYear *int
	Page      int
	PageSize  int
}
