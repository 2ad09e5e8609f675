package dto

import (
	"github.com/noah-isme/faculty-loading-api/internal/models"
)

// FacultyLoading summarises the assignments of one faculty member in a term.
type FacultyLoading struct {
	FacultyMemberID string                `json:"facultyMemberId"`
	Name            string                `json:"name"`
	Rank            models.FacultyRank    `json:"rank"`
	Minimum         int                   `json:"minimum"`
	Maximum         int                   `json:"maximum"`
	Extra           int                   `json:"extra"`
	HasExternalLoad bool                  `json:"hasExternalLoad"`
	AssignmentCount int                   `json:"assignmentCount"`
	LoadStatus      string                `json:"loadStatus"`
	ClassMeetings   []models.ClassMeeting `json:"classMeetings"`
}

// MyScheduleResponse is the faculty member's own view of a term.
type MyScheduleResponse struct {
	Term    models.Term    `json:"term"`
	Loading FacultyLoading `json:"loading"`
}

// ExportQuery selects the loading sheet format.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
