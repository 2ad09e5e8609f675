package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
)

type termMock struct {
	listQuery   dto.ListTermsQuery
	created     dto.CreateTermRequest
	constraints dto.SetTimeConstraintsRequest
	userID      string
	external    dto.SetExternalLoadRequest
	facultyID   string
}

func (m *termMock) List(ctx context.Context, query dto.ListTermsQuery) ([]models.Term, *models.Pagination, error) {
	m.listQuery = query
	return []models.Term{{ID: "term-1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *termMock) Get(ctx context.Context, id string) (*models.Term, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
}

func (m *termMock) Current(ctx context.Context) (*models.Term, error) {
	return &models.Term{ID: "term-1", Status: models.TermScheduling}, nil
}

func (m *termMock) Create(ctx context.Context, req dto.CreateTermRequest) (*models.Term, error) {
	m.created = req
	return &models.Term{ID: "term-2", StartYear: req.StartYear, Ordinal: req.Ordinal, Status: models.TermInitializing}, nil
}

func (m *termMock) Advance(ctx context.Context, id string) (*models.Term, error) {
	return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "every faculty member and class meeting must be assigned before gathering feedback")
}

func (m *termMock) Regress(ctx context.Context, id string) (*models.Term, error) {
	return &models.Term{ID: id, Status: models.TermInitializing}, nil
}

func (m *termMock) AddClassMeeting(ctx context.Context, termID string, req dto.CreateClassMeetingRequest) (*models.ClassMeeting, error) {
	return &models.ClassMeeting{ID: "cm-1", TermID: termID}, nil
}

func (m *termMock) ListClassMeetings(ctx context.Context, termID string, query dto.ListClassMeetingsQuery) ([]models.ClassMeeting, error) {
	return []models.ClassMeeting{}, nil
}

func (m *termMock) SetTimeConstraints(ctx context.Context, termID, userID string, req dto.SetTimeConstraintsRequest) ([]models.TimeConstraint, error) {
	m.userID = userID
	m.constraints = req
	return []models.TimeConstraint{}, nil
}

func (m *termMock) SetExternalLoad(ctx context.Context, termID, facultyMemberID string, req dto.SetExternalLoadRequest) error {
	m.facultyID = facultyMemberID
	m.external = req
	return nil
}

func newTermRouter(mock *termMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTermHandler(mock)
	router := gin.New()
	router.Use(withClaims("u-alice", models.RoleFaculty))
	router.GET("/terms", h.List)
	router.POST("/terms", h.Create)
	router.GET("/terms/current", h.Current)
	router.GET("/terms/:termId", h.Get)
	router.POST("/terms/:termId/advance", h.Advance)
	router.POST("/terms/:termId/regress", h.Regress)
	router.POST("/terms/:termId/class-meetings", h.AddClassMeeting)
	router.PUT("/terms/:termId/time-constraints", h.SetTimeConstraints)
	router.PUT("/terms/:termId/external-loads/:facultyId", h.SetExternalLoad)
	return router
}

func TestTermHandlerList(t *testing.T) {
	mock := &termMock{}
	w := perform(newTermRouter(mock), http.MethodGet, "/terms?status=SCHEDULING&startYear=2024&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SCHEDULING", mock.listQuery.Status)
	require.NotNil(t, mock.listQuery.StartYear)
	assert.Equal(t, 2024, *mock.listQuery.StartYear)
	assert.Equal(t, 2, mock.listQuery.Page)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}

func TestTermHandlerCreate(t *testing.T) {
	mock := &termMock{}
	router := newTermRouter(mock)

	w := perform(router, http.MethodPost, "/terms", []byte(`{"startYear":2025,"ordinal":"SECOND"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2025, mock.created.StartYear)
	assert.Equal(t, models.OrdinalSecond, mock.created.Ordinal)

	w = perform(router, http.MethodPost, "/terms", []byte(`{"startYear":"soon"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTermHandlerStatusErrors(t *testing.T) {
	router := newTermRouter(&termMock{})

	w := perform(router, http.MethodGet, "/terms/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodPost, "/terms/term-1/advance", nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, decode(t, w).Error.Code)

	w = perform(router, http.MethodPost, "/terms/term-1/regress", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/terms/current", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTermHandlerInputs(t *testing.T) {
	mock := &termMock{}
	router := newTermRouter(mock)

	body := []byte(`{"constraints":[{"meetingDays":"MON_THU","meetingHours":"AM_7_9","availability":"AVAILABLE","isPreferred":true}]}`)
	w := perform(router, http.MethodPut, "/terms/term-1/time-constraints", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-alice", mock.userID)
	require.Len(t, mock.constraints.Constraints, 1)
	assert.True(t, mock.constraints.Constraints[0].IsPreferred)

	w = perform(router, http.MethodPut, "/terms/term-1/external-loads/bob", []byte(`{"hasExternalLoad":true}`))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "bob", mock.facultyID)
	require.NotNil(t, mock.external.HasExternalLoad)
	assert.True(t, *mock.external.HasExternalLoad)

	w = perform(router, http.MethodPost, "/terms/term-1/class-meetings", []byte(`{"subjectId":"s1"}`))
	assert.Equal(t, http.StatusCreated, w.Code)
}
