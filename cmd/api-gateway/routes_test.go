package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/faculty-loading-api/internal/handler"
	"github.com/noah-isme/faculty-loading-api/internal/middleware"
	"github.com/noah-isme/faculty-loading-api/internal/models"
)

type roleTokens map[string]models.UserRole

func (r roleTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	role, ok := r[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &models.JWTClaims{UserID: "u-" + token, Role: role}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerRoutes(r.Group("/api/v1"), routes{
		auth:       handler.NewAuthHandler(nil),
		terms:      handler.NewTermHandler(nil),
		scheduler:  handler.NewSchedulerHandler(nil),
		loading:    handler.NewLoadingHandler(nil),
		subjects:   handler.NewSubjectHandler(nil),
		tokens:     roleTokens{"dean": models.RoleDean, "clerk": models.RoleClerk, "faculty": models.RoleFaculty},
		autoAssign: middleware.NewRateLimiter(1, 1),
	})
	return r
}

func TestRouteRoles(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"anonymous terms", http.MethodGet, "/api/v1/terms", "", http.StatusUnauthorized},
		{"faculty cannot open term", http.MethodPost, "/api/v1/terms", "faculty", http.StatusForbidden},
		{"clerk cannot auto assign", http.MethodPost, "/api/v1/terms/t1/auto-assign", "clerk", http.StatusForbidden},
		{"clerk cannot recommend", http.MethodGet, "/api/v1/terms/t1/class-meetings/cm1/recommendations", "clerk", http.StatusForbidden},
		{"dean cannot give feedback", http.MethodPut, "/api/v1/terms/t1/class-meetings/cm1/feedback", "dean", http.StatusForbidden},
		{"faculty cannot export", http.MethodGet, "/api/v1/terms/t1/loading/export", "faculty", http.StatusForbidden},
		{"dean has no schedule", http.MethodGet, "/api/v1/terms/t1/my-schedule", "dean", http.StatusForbidden},
		{"faculty cannot add meetings", http.MethodPost, "/api/v1/terms/t1/class-meetings", "faculty", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
