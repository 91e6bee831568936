package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/auth/jwt"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/i18n"
)

// Authenticator validates an access token issued for a tenant
type Authenticator interface {
	Authenticate(ctx context.Context, tenant *database.Tenant, token string) (*database.User, *jwt.Claims, error)
}

// JWTAuthMiddleware validates the bearer token of the request and stores the
// caller and its claims in the context. It must run after TenantMiddleware.
func JWTAuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := CurrentTenant(c)
		if tenant == nil {
			i18n.AbortWithError(c, i18n.ErrorTenantSlugRequired)
			return
		}

		token, ok := bearerToken(c.GetHeader(cnst.HeaderAuthorization))
		if !ok {
			i18n.AbortWithError(c, i18n.ErrorTokenRequired)
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), tenant, token)
		if err != nil {
			logger.Debug("authentication failed",
				zap.String("tenant", tenant.Slug),
				zap.String("path", c.FullPath()),
				zap.Error(err))
			i18n.AbortWithError(c, err)
			return
		}

		c.Set(cnst.CtxKeyUser, user)
		c.Set(cnst.CtxKeyClaims, claims)
		c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], cnst.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// CurrentUser returns the authenticated caller, or nil
func CurrentUser(c *gin.Context) *database.User {
	if v, ok := c.Get(cnst.CtxKeyUser); ok {
		if u, ok := v.(*database.User); ok {
			return u
		}
	}
	return nil
}

// CurrentClaims returns the claims of the validated token, or nil
func CurrentClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(cnst.CtxKeyClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}
