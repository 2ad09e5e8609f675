package models

import "time"

// FeedbackStatus tracks the faculty member's response to an assignment.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "PENDING"
	FeedbackAccepted FeedbackStatus = "ACCEPTED"
	FeedbackRejected FeedbackStatus = "REJECTED"
)

// Feedback links a class meeting to the faculty member assigned to it.
type Feedback struct {
	ID              string         `db:"id" json:"id"`
	ClassMeetingID  string         `db:"class_meeting_id" json:"class_meeting_id"`
	FacultyMemberID string         `db:"faculty_member_id" json:"faculty_member_id"`
	Status          FeedbackStatus `db:"status" json:"status"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// ExperienceKey identifies accepted teaching history for a (faculty, subject) pair.
type ExperienceKey struct {
	FacultyMemberID string `db:"faculty_member_id"`
	SubjectID       string `db:"subject_id"`
}

// ExperienceCount is an aggregated accepted-feedback count.
type ExperienceCount struct {
	ExperienceKey
	Count int `db:"count"`
}
