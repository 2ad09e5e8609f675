package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/pkg/response"
)

type scheduleRunner interface {
	AutoAssign(ctx context.Context, termID string) (*dto.AutoAssignResponse, error)
	Recommend(ctx context.Context, termID, meetingID string, query dto.RecommendationQuery) (*dto.RecommendationResponse, error)
	SetFaculty(ctx context.Context, termID, meetingID, facultyMemberID string) (*models.ClassMeeting, error)
	SetFeedback(ctx context.Context, termID, meetingID, userID string, req dto.SetFeedbackRequest) (*models.Feedback, error)
}

// SchedulerHandler exposes automatic and manual class assignment.
type SchedulerHandler struct {
	service scheduleRunner
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(svc scheduleRunner) *SchedulerHandler {
	return &SchedulerHandler{service: svc}
}

// AutoAssign godoc
// @Summary Assign every open class meeting of a term
// @Description Runs the scheduler over unassigned meetings in block order and returns the term's meetings
// @Tags Scheduling
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /terms/{termId}/auto-assign [post]
func (h *SchedulerHandler) AutoAssign(c *gin.Context) {
	result, err := h.service.AutoAssign(c.Request.Context(), c.Param("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Recommend godoc
// @Summary Rank faculty members for a class meeting
// @Description Read-only; every candidate is annotated with score, pros, cons and errors
// @Tags Scheduling
// @Produce json
// @Param termId path string true "Term ID"
// @Param meetingId path string true "Class meeting ID"
// @Param all query bool false "Include part-time and adjunct members while full-time members are underloaded"
// @Success 200 {object} response.Envelope
// @Router /terms/{termId}/class-meetings/{meetingId}/recommendations [get]
func (h *SchedulerHandler) Recommend(c *gin.Context) {
	var query dto.RecommendationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Invalid(c, err, "invalid query parameters")
		return
	}
	result, err := h.service.Recommend(c.Request.Context(), c.Param("termId"), c.Param("meetingId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SetFaculty godoc
// @Summary Assign a class meeting by hand
// @Description Rejected when the pairing has hard errors; soft cons are accepted
// @Tags Scheduling
// @Produce json
// @Param termId path string true "Term ID"
// @Param meetingId path string true "Class meeting ID"
// @Param facultyId path string true "Faculty member ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /terms/{termId}/class-meetings/{meetingId}/faculty/{facultyId} [put]
func (h *SchedulerHandler) SetFaculty(c *gin.Context) {
	meeting, err := h.service.SetFaculty(c.Request.Context(), c.Param("termId"), c.Param("meetingId"), c.Param("facultyId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// SetFeedback godoc
// @Summary Accept or reject an assignment
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param termId path string true "Term ID"
// @Param meetingId path string true "Class meeting ID"
// @Param payload body dto.SetFeedbackRequest true "Feedback"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /terms/{termId}/class-meetings/{meetingId}/feedback [put]
func (h *SchedulerHandler) SetFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.SetFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err, "invalid feedback payload")
		return
	}
	feedback, err := h.service.SetFeedback(c.Request.Context(), c.Param("termId"), c.Param("meetingId"), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}
