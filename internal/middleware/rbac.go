package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-loading-api/internal/models"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
	"github.com/noah-isme/faculty-loading-api/pkg/response"
)

// Role groups shared by the route table.
var (
	Deans       = []models.UserRole{models.RoleDean, models.RoleAssociateDean}
	Staff       = []models.UserRole{models.RoleDean, models.RoleAssociateDean, models.RoleClerk}
	Everyone    = []models.UserRole{models.RoleDean, models.RoleAssociateDean, models.RoleClerk, models.RoleFaculty}
	FacultyOnly = []models.UserRole{models.RoleFaculty}
)

// RequireRoles aborts with 403 unless the caller holds one of roles. It must run
// after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(claims.Role)+" may not access this resource"))
			c.Abort()
			return
		}
		c.Next()
	}
}
