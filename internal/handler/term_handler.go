package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/pkg/response"
)

type termManager interface {
	List(ctx context.Context, query dto.ListTermsQuery) ([]models.Term, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Term, error)
	Current(ctx context.Context) (*models.Term, error)
	Create(ctx context.Context, req dto.CreateTermRequest) (*models.Term, error)
	Advance(ctx context.Context, id string) (*models.Term, error)
	Regress(ctx context.Context, id string) (*models.Term, error)
	AddClassMeeting(ctx context.Context, termID string, req dto.CreateClassMeetingRequest) (*models.ClassMeeting, error)
	ListClassMeetings(ctx context.Context, termID string, query dto.ListClassMeetingsQuery) ([]models.ClassMeeting, error)
	SetTimeConstraints(ctx context.Context, termID, userID string, req dto.SetTimeConstraintsRequest) ([]models.TimeConstraint, error)
	SetExternalLoad(ctx context.Context, termID, facultyMemberID string, req dto.SetExternalLoadRequest) error
}

// TermHandler exposes the term lifecycle and its scheduling inputs.
type TermHandler struct {
	service termManager
}

// NewTermHandler constructs the handler.
func NewTermHandler(svc termManager) *TermHandler {
	return &TermHandler{service: svc}
}

// List godoc
// @Summary List terms
// @Tags Terms
// @Produce json
// @Param status query string false "Term status"
// @Param startYear query int false "Start year"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	var query dto.ListTermsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Invalid(c, err, "invalid query parameters")
		return
	}
	terms, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, pagination)
}

// Current godoc
// @Summary Get the current term
// @Tags Terms
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /terms/current [get]
func (h *TermHandler) Current(c *gin.Context) {
	term, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// Get godoc
// @Summary Get term by id
// @Tags Terms
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /terms/{termId} [get]
func (h *TermHandler) Get(c *gin.Context) {
	term, err := h.service.Get(c.Request.Context(), c.Param("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// Create godoc
// @Summary Open a new term
// @Description Creates the term in INITIALIZING status and archives every other term
// @Tags Terms
// @Accept json
// @Produce json
// @Param payload body dto.CreateTermRequest true "Term payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /terms [post]
func (h *TermHandler) Create(c *gin.Context) {
	var req dto.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err, "invalid term payload")
		return
	}
	term, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}

// Advance godoc
// @Summary Advance term status
// @Tags Terms
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /terms/{termId}/advance [post]
func (h *TermHandler) Advance(c *gin.Context) {
	term, err := h.service.Advance(c.Request.Context(), c.Param("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// Regress godoc
// @Summary Move term status one step back
// @Tags Terms
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /terms/{termId}/regress [post]
func (h *TermHandler) Regress(c *gin.Context) {
	term, err := h.service.Regress(c.Request.Context(), c.Param("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// ListClassMeetings godoc
// @Summary List class meetings of a term
// @Tags Class Meetings
// @Produce json
// @Param termId path string true "Term ID"
// @Param facultyMemberId query string false "Only meetings assigned to this faculty member"
// @Param unassigned query bool false "Only meetings without an assignment"
// @Success 200 {object} response.Envelope
// @Router /terms/{termId}/class-meetings [get]
func (h *TermHandler) ListClassMeetings(c *gin.Context) {
	var query dto.ListClassMeetingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Invalid(c, err, "invalid query parameters")
		return
	}
	meetings, err := h.service.ListClassMeetings(c.Request.Context(), c.Param("termId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// AddClassMeeting godoc
// @Summary Add a class meeting to a term
// @Tags Class Meetings
// @Accept json
// @Produce json
// @Param termId path string true "Term ID"
// @Param payload body dto.CreateClassMeetingRequest true "Class meeting payload"
// @Success 201 {object} response.Envelope
// @Router /terms/{termId}/class-meetings [post]
func (h *TermHandler) AddClassMeeting(c *gin.Context) {
	var req dto.CreateClassMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err, "invalid class meeting payload")
		return
	}
	meeting, err := h.service.AddClassMeeting(c.Request.Context(), c.Param("termId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, meeting)
}

// SetTimeConstraints godoc
// @Summary Replace the caller's time constraints for a term
// @Tags Faculty
// @Accept json
// @Produce json
// @Param termId path string true "Term ID"
// @Param payload body dto.SetTimeConstraintsRequest true "Constraints"
// @Success 200 {object} response.Envelope
// @Router /terms/{termId}/time-constraints [put]
func (h *TermHandler) SetTimeConstraints(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.SetTimeConstraintsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err, "invalid time constraints")
		return
	}
	constraints, err := h.service.SetTimeConstraints(c.Request.Context(), c.Param("termId"), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints, nil)
}

// SetExternalLoad godoc
// @Summary Set or clear a faculty member's external load
// @Tags Faculty
// @Accept json
// @Produce json
// @Param termId path string true "Term ID"
// @Param facultyId path string true "Faculty member ID"
// @Param payload body dto.SetExternalLoadRequest true "External load flag"
// @Success 204
// @Router /terms/{termId}/external-loads/{facultyId} [put]
func (h *TermHandler) SetExternalLoad(c *gin.Context) {
	var req dto.SetExternalLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err, "invalid external load payload")
		return
	}
	if err := h.service.SetExternalLoad(c.Request.Context(), c.Param("termId"), c.Param("facultyId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
