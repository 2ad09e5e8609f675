package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/service"
	"github.com/noah-isme/faculty-loading-api/pkg/response"
)

type loadingReporter interface {
	TermLoading(ctx context.Context, termID string) ([]dto.FacultyLoading, error)
	MySchedule(ctx context.Context, termID, userID string) (*dto.MyScheduleResponse, error)
	Export(ctx context.Context, termID string, query dto.ExportQuery) (*service.LoadingExport, error)
}

// LoadingHandler serves faculty loading views and the printable loading sheet.
type LoadingHandler struct {
	service loadingReporter
}

// NewLoadingHandler constructs the handler.
func NewLoadingHandler(svc loadingReporter) *LoadingHandler {
	return &LoadingHandler{service: svc}
}

// FacultyMembers godoc
// @Summary Loading of every active faculty member in a term
// @Tags Loading
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /terms/{termId}/faculty-members [get]
func (h *LoadingHandler) FacultyMembers(c *gin.Context) {
	loading, err := h.service.TermLoading(c.Request.Context(), c.Param("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loading, nil)
}

// MySchedule godoc
// @Summary The caller's own loading in a term
// @Tags Loading
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /terms/{termId}/my-schedule [get]
func (h *LoadingHandler) MySchedule(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	schedule, err := h.service.MySchedule(c.Request.Context(), c.Param("termId"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Export godoc
// @Summary Download the loading sheet
// @Tags Loading
// @Produce text/csv
// @Produce application/pdf
// @Param termId path string true "Term ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Router /terms/{termId}/loading/export [get]
func (h *LoadingHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Invalid(c, err, "invalid query parameters")
		return
	}
	file, err := h.service.Export(c.Request.Context(), c.Param("termId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
