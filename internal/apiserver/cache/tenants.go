// Package cache keeps hot lookups of the api server out of the database.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/common/redisx"
	"github.com/amoylab/casedesk/pkg/utils"
)

// Tenants caches tenants by slug. Every request resolves its tenant, so a
// hit here saves one query per request. Entries expire after the configured
// TTL, which bounds how long a suspension takes to be noticed.
type Tenants struct {
	logger *zap.Logger
	cache  *MultiLayer[database.Tenant]
	client redis.UniversalClient
}

// NewTenants builds the tenant cache from configuration. With store redis the
// entries are shared by every api server instance.
func NewTenants(ctx context.Context, cfg *config.CacheConfig, logger *zap.Logger) (*Tenants, error) {
	logger = logger.Named("cache.tenants")
	var client redis.UniversalClient
	switch cfg.Store {
	case "", "memory":
	case "redis":
		var err error
		client, err = redisx.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported cache store type: %s", cfg.Store)
	}

	prefix := utils.FirstNonEmpty(cfg.Redis.Prefix, cnst.AppName+":cache:")
	c := Config{KeyPrefix: prefix + "tenant:", TTL: cfg.TTL, MaxEntries: cfg.MaxEntries}
	if client != nil {
		c.RedisClient = client
	}
	logger.Info("Initializing tenant cache", zap.String("store", cfg.Store), zap.Duration("ttl", cfg.TTL))
	return &Tenants{
		logger: logger,
		cache:  NewMultiLayer[database.Tenant](c, logger),
		client: client,
	}, nil
}

// Get returns a copy of the cached tenant for slug
func (t *Tenants) Get(ctx context.Context, slug string) (*database.Tenant, bool) {
	tenant, layer, ok := t.cache.Get(ctx, slug)
	if !ok {
		return nil, false
	}
	t.logger.Debug("tenant cache hit", zap.String("slug", slug), zap.String("layer", string(layer)))
	return &tenant, true
}

// Put stores a copy of tenant under its slug
func (t *Tenants) Put(ctx context.Context, tenant *database.Tenant) {
	if err := t.cache.Set(ctx, tenant.Slug, *tenant); err != nil {
		t.logger.Warn("failed to cache tenant", zap.String("slug", tenant.Slug), zap.Error(err))
	}
}

// Invalidate drops slug from every layer
func (t *Tenants) Invalidate(ctx context.Context, slug string) {
	if err := t.cache.Delete(ctx, slug); err != nil {
		t.logger.Warn("failed to invalidate tenant", zap.String("slug", slug), zap.Error(err))
	}
}

// Close logs the final counters and releases the redis connection, if any
func (t *Tenants) Close() error {
	s := t.cache.Stats()
	t.logger.Info("tenant cache closed",
		zap.Int64("l1_hits", s.L1Hits),
		zap.Int64("l2_hits", s.L2Hits),
		zap.Int64("misses", s.Misses),
		zap.Float64("hit_rate", s.HitRate))
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}
