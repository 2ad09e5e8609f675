package dto

import "github.com/noah-isme/faculty-loading-api/internal/models"

// CreateTermRequest opens a new scheduling term.
type CreateTermRequest struct {
	StartYear int                `json:"startYear" validate:"required,gte=2000,lte=2200"`
	Ordinal   models.OrdinalTerm `json:"ordinal" validate:"required,oneof=FIRST SECOND SUMMER"`
}

// ListTermsQuery filters GET /terms.
type ListTermsQuery struct {
	Status    string `form:"status" validate:"omitempty,oneof=INITIALIZING SCHEDULING FEEDBACK_GATHERING PUBLISHED ARCHIVED"`
	StartYear *int   `form:"startYear"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// CreateClassMeetingRequest adds a meeting to a term.
type CreateClassMeetingRequest struct {
	SubjectID    string              `json:"subjectId" validate:"required"`
	MeetingDays  models.MeetingDays  `json:"meetingDays" validate:"required,oneof=MON_THU TUE_FRI WED_SAT"`
	MeetingHours models.MeetingHours `json:"meetingHours" validate:"required,oneof=AM_7_9 AM_9_11 AM_11_1 PM_1_3 PM_3_5 PM_5_7"`
	Room         string              `json:"room" validate:"required,max=64"`
	Section      string              `json:"section" validate:"required,max=32"`
	Course       string              `json:"course" validate:"required,max=64"`
	StudentYear  string              `json:"studentYear" validate:"required,max=16"`
	ForAdjunct   bool                `json:"forAdjunct"`
	AdjunctName  *string             `json:"adjunctName" validate:"omitempty,max=128"`
}

// ListClassMeetingsQuery filters GET /terms/:termId/class-meetings.
type ListClassMeetingsQuery struct {
	FacultyMemberID string `form:"facultyMemberId"`
	UnassignedOnly  bool   `form:"unassigned"`
}

// TimeConstraintInput is one availability row.
type TimeConstraintInput struct {
	MeetingDays  models.MeetingDays  `json:"meetingDays" validate:"required,oneof=MON_THU TUE_FRI WED_SAT"`
	MeetingHours models.MeetingHours `json:"meetingHours" validate:"required,oneof=AM_7_9 AM_9_11 AM_11_1 PM_1_3 PM_3_5 PM_5_7"`
	Availability models.Availability `json:"availability" validate:"required,oneof=AVAILABLE UNAVAILABLE OTHER_REASON"`
	IsPreferred  bool                `json:"isPreferred"`
}

// SetTimeConstraintsRequest replaces the caller's constraints for a term.
type SetTimeConstraintsRequest struct {
	Constraints []TimeConstraintInput `json:"constraints" validate:"max=18,dive"`
}

// SetExternalLoadRequest sets or clears a faculty member's external load flag.
type SetExternalLoadRequest struct {
	HasExternalLoad *bool `json:"hasExternalLoad" validate:"required"`
}
