package ratelimit

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/common/config"
)

// NewStore creates a new rate limit store based on configuration
func NewStore(logger *zap.Logger, cfg *config.RateLimitConfig) (Store, error) {
	logger.Info("Initializing rate limit store", zap.String("type", cfg.Store))
	switch cfg.Store {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(logger, &cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported rate limit store type: %s", cfg.Store)
	}
}
