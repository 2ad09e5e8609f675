package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/pkg/response"
)

type subjectCatalog interface {
	List(ctx context.Context, program, search string) ([]models.Subject, error)
	Get(ctx context.Context, id string) (*models.Subject, error)
}

// SubjectHandler handles subject endpoints.
type SubjectHandler struct {
	service subjectCatalog
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectCatalog) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param program query string false "Filter by program"
// @Param search query string false "Search code or name"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.service.List(c.Request.Context(), c.Query("program"), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Get godoc
// @Summary Get subject by id
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}
