package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-loading-api/internal/handler"
	"github.com/noah-isme/faculty-loading-api/internal/middleware"
	"github.com/noah-isme/faculty-loading-api/internal/models"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type routes struct {
	auth       *handler.AuthHandler
	terms      *handler.TermHandler
	scheduler  *handler.SchedulerHandler
	loading    *handler.LoadingHandler
	subjects   *handler.SubjectHandler
	tokens     tokenValidator
	autoAssign *middleware.RateLimiter
}

func registerRoutes(api *gin.RouterGroup, h routes) {
	api.POST("/auth/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(h.tokens))

	everyone := middleware.RequireRoles(middleware.Everyone...)
	staff := middleware.RequireRoles(middleware.Staff...)
	deans := middleware.RequireRoles(middleware.Deans...)
	faculty := middleware.RequireRoles(middleware.FacultyOnly...)

	secured.GET("/subjects", everyone, h.subjects.List)
	secured.GET("/subjects/:id", everyone, h.subjects.Get)

	terms := secured.Group("/terms")
	terms.GET("", everyone, h.terms.List)
	terms.POST("", deans, h.terms.Create)
	terms.GET("/current", everyone, h.terms.Current)
	terms.GET("/:termId", everyone, h.terms.Get)
	terms.POST("/:termId/advance", deans, h.terms.Advance)
	terms.POST("/:termId/regress", deans, h.terms.Regress)

	terms.GET("/:termId/class-meetings", staff, h.terms.ListClassMeetings)
	terms.POST("/:termId/class-meetings", staff, h.terms.AddClassMeeting)
	terms.PUT("/:termId/external-loads/:facultyId", staff, h.terms.SetExternalLoad)
	terms.PUT("/:termId/time-constraints", faculty, h.terms.SetTimeConstraints)

	terms.POST("/:termId/auto-assign", deans, h.autoAssign.Middleware(), h.scheduler.AutoAssign)
	terms.GET("/:termId/class-meetings/:meetingId/recommendations", deans, h.scheduler.Recommend)
	terms.PUT("/:termId/class-meetings/:meetingId/faculty/:facultyId", deans, h.scheduler.SetFaculty)
	terms.PUT("/:termId/class-meetings/:meetingId/feedback", faculty, h.scheduler.SetFeedback)

	terms.GET("/:termId/faculty-members", staff, h.loading.FacultyMembers)
	terms.GET("/:termId/my-schedule", faculty, h.loading.MySchedule)
	terms.GET("/:termId/loading/export", staff, h.loading.Export)
}
