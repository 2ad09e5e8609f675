package models

import "time"

// Availability records whether a faculty member can take a block.
type Availability string

const (
	AvailabilityAvailable   Availability = "AVAILABLE"
	AvailabilityUnavailable Availability = "UNAVAILABLE"
	AvailabilityOtherReason Availability = "OTHER_REASON"
)

// TimeConstraint is a faculty member's stated availability for one block of a term.
type TimeConstraint struct {
	ID              string       `db:"id" json:"id"`
	FacultyMemberID string       `db:"faculty_member_id" json:"faculty_member_id"`
	TermID          string       `db:"term_id" json:"term_id"`
	MeetingDays     MeetingDays  `db:"meeting_days" json:"meeting_days"`
	MeetingHours    MeetingHours `db:"meeting_hours" json:"meeting_hours"`
	Availability    Availability `db:"availability" json:"availability"`
	IsPreferred     bool         `db:"is_preferred" json:"is_preferred"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// Matches reports whether the constraint covers the given block.
func (c TimeConstraint) Matches(days MeetingDays, hours MeetingHours) bool {
	return c.MeetingDays == days && c.MeetingHours == hours
}
