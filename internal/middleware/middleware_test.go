package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-loading-api/internal/models"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
}

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("bad signature"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return v.claims, nil
}

type observerStub struct {
	paths    []string
	statuses []int
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	o.paths = append(o.paths, method+" "+path)
	o.statuses = append(o.statuses, status)
}

func newRouter(role models.UserRole, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{JWT(validatorStub{claims: &models.JWTClaims{UserID: "user-1", Role: role}})}, handlers...)
	chain = append(chain, func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/terms/:termId", chain...)
	return router
}

func serve(router http.Handler, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/terms/term-1", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	router := newRouter(models.RoleDean)

	assert.Equal(t, http.StatusUnauthorized, serve(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "Bearer bad").Code)
	assert.Equal(t, http.StatusOK, serve(router, "Bearer good").Code)
}

func TestRequireRoles(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(newRouter(models.RoleDean, RequireRoles(Deans...)), "Bearer good").Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(models.RoleFaculty, RequireRoles(Deans...)), "Bearer good").Code)
	assert.Equal(t, http.StatusOK, serve(newRouter(models.RoleFaculty, RequireRoles(Everyone...)), "Bearer good").Code)

	gin.SetMode(gin.TestMode)
	bare := gin.New()
	bare.GET("/terms/:termId", RequireRoles(Staff...), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "").Code)
}

func TestRateLimiterPerCaller(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	clock := time.Date(2024, 8, 1, 8, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	router := newRouter(models.RoleDean, limiter.Middleware())
	assert.Equal(t, http.StatusOK, serve(router, "Bearer good").Code)
	assert.Equal(t, http.StatusOK, serve(router, "Bearer good").Code)
	blocked := serve(router, "Bearer good")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

	clock = clock.Add(time.Minute)
	assert.Equal(t, http.StatusOK, serve(router, "Bearer good").Code)

	require.True(t, limiter.allow("user:other"))
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	limiter := NewRateLimiter(60, 1)
	clock := time.Now()
	limiter.now = func() time.Time { return clock }

	limiter.allow("a")
	clock = clock.Add(limiter.idle + time.Second)
	limiter.allow("b")

	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "b")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &observerStub{}
	router := gin.New()
	router.Use(Metrics(observer))
	router.GET("/terms/:termId", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	serve(router, "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere/123", nil))

	assert.Equal(t, []string{"GET /terms/:termId", "GET unmatched"}, observer.paths)
	assert.Equal(t, []int{http.StatusAccepted, http.StatusNotFound}, observer.statuses)
}
