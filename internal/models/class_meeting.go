package models

import "time"

// ClassMeeting is one scheduled section of a subject at a fixed day pattern and block.
type ClassMeeting struct {
	ID           string       `db:"id" json:"id"`
	TermID       string       `db:"term_id" json:"term_id"`
	SubjectID    string       `db:"subject_id" json:"subject_id"`
	MeetingDays  MeetingDays  `db:"meeting_days" json:"meeting_days"`
	MeetingHours MeetingHours `db:"meeting_hours" json:"meeting_hours"`
	Room         string       `db:"room" json:"room"`
	Section      string       `db:"section" json:"section"`
	Course       string       `db:"course" json:"course"`
	StudentYear  string       `db:"student_year" json:"student_year"`
	ForAdjunct   bool         `db:"for_adjunct" json:"for_adjunct"`
	AdjunctName  *string      `db:"adjunct_name" json:"adjunct_name,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`

	Subject  Subject   `db:"-" json:"subject"`
	Feedback *Feedback `db:"-" json:"feedback,omitempty"`
}

// Assigned reports whether the meeting carries a feedback record.
func (m ClassMeeting) Assigned() bool {
	return m.Feedback != nil
}

// ClassMeetingFilter narrows term meeting listings.
type ClassMeetingFilter struct {
	TermID          string
	FacultyMemberID string
	UnassignedOnly  bool
}
