package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/i18n"
)

// Authorize lets the request through when the caller has one of roles.
// An empty list admits any authenticated user.
func Authorize(roles ...cnst.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			i18n.AbortWithError(c, i18n.ErrUnauthorized)
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			i18n.AbortWithError(c, i18n.ErrorRoleNotAllowed)
			return
		}
		c.Next()
	}
}
