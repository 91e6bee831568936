package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/i18n"
)

// TenantResolver maps a slug to an active tenant
type TenantResolver interface {
	Resolve(ctx context.Context, slug string) (*database.Tenant, error)
}

// TenantMiddleware resolves the tenant named by the X-Tenant-Slug header
func TenantMiddleware(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := resolver.Resolve(c.Request.Context(), c.GetHeader(cnst.HeaderTenantSlug))
		if err != nil {
			i18n.AbortWithError(c, err)
			return
		}
		c.Set(cnst.CtxKeyTenant, tenant)
		c.Next()
	}
}

// CurrentTenant returns the resolved tenant, or nil
func CurrentTenant(c *gin.Context) *database.Tenant {
	if v, ok := c.Get(cnst.CtxKeyTenant); ok {
		if t, ok := v.(*database.Tenant); ok {
			return t
		}
	}
	return nil
}
