package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-loading-api/internal/middleware"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
	"github.com/noah-isme/faculty-loading-api/pkg/response"
)

// currentUserID returns the authenticated user id or writes a 401 and returns false.
func currentUserID(c *gin.Context) (string, bool) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}
