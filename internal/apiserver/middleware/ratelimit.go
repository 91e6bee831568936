package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/ratelimit"
	"github.com/amoylab/casedesk/pkg/metrics"
)

// RateLimit counts requests per client IP against limiter. Store failures let
// the request through.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limit store unavailable",
				zap.String("policy", limiter.Name()),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header(cnst.HeaderRateLimitLimit, strconv.Itoa(res.Limit))
		c.Header(cnst.HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
		c.Header(cnst.HeaderRateLimitReset, strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			m.RateLimited(limiter.Name())
			logger.Info("rate limited",
				zap.String("policy", limiter.Name()),
				zap.String("client", c.ClientIP()))
			i18n.AbortWithError(c, i18n.ErrRateLimited)
			return
		}
		c.Next()
	}
}
