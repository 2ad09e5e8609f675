package dto

import (
	"time"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

// AutoAssignResponse is returned by POST /terms/:termId/auto-assign.
type AutoAssignResponse struct {
	TermID        string                `json:"termId"`
	Considered    int                   `json:"considered"`
	Assigned      int                   `json:"assigned"`
	Skipped       []SkippedClassMeeting `json:"skipped"`
	DurationMs    int64                 `json:"durationMs"`
	ClassMeetings []models.ClassMeeting `json:"classMeetings"`
}

// SkippedClassMeeting names a meeting left without an eligible candidate.
type SkippedClassMeeting struct {
	ClassMeetingID string `json:"classMeetingId"`
	Reason         string `json:"reason"`
}

// RecommendationQuery controls GET .../recommendations.
type RecommendationQuery struct {
	// All includes part-time and adjunct members while full-time members are underloaded.
	All bool `form:"all"`
}

// CandidateView is one annotated faculty member in a recommendation list.
type CandidateView struct {
	FacultyMemberID string             `json:"facultyMemberId"`
	Name            string             `json:"name"`
	Rank            models.FacultyRank `json:"rank"`
	AssignmentCount int                `json:"assignmentCount"`
	LoadStatus      string             `json:"loadStatus"`
	Score           float64            `json:"score"`
	Pros            []string           `json:"pros"`
	Cons            []string           `json:"cons"`
	Errors          []string           `json:"errors"`
	Eligible        bool               `json:"eligible"`
}

// RecommendationResponse lists candidates for one meeting, best first.
type RecommendationResponse struct {
	ClassMeetingID string          `json:"classMeetingId"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	Candidates     []CandidateView `json:"candidates"`
}

// SetFeedbackRequest is sent by a faculty member answering an assignment.
type SetFeedbackRequest struct {
	Status models.FeedbackStatus `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}
