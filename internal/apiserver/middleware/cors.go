package middleware

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
)

// CORS applies the configured origin allow-list
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			cnst.HeaderAuthorization, cnst.HeaderTenantSlug, cnst.HeaderRequestID, cnst.XLang,
		},
		ExposeHeaders: []string{
			cnst.HeaderRequestID,
			cnst.HeaderRateLimitLimit, cnst.HeaderRateLimitRemaining, cnst.HeaderRateLimitReset,
		},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") && !cfg.AllowCredentials {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowOrigins
	}
	return cors.New(cc)
}
