package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/common/redisx"
)

// RedisStore keeps one sorted set per key, scored by request time in
// milliseconds, so every api server instance shares the same windows.
type RedisStore struct {
	logger *zap.Logger
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to redis and creates a new redis store instance
func NewRedisStore(logger *zap.Logger, cfg *config.RedisConfig) (*RedisStore, error) {
	client, err := redisx.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisStoreWithClient(logger, client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(logger *zap.Logger, client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = cnst.AppName + ":ratelimit:"
	}
	return &RedisStore{
		logger: logger.Named("ratelimit.redis"),
		client: client,
		prefix: prefix,
	}
}

// Allow implements Store.Allow. The request is added optimistically and
// removed again when it overflows the window.
func (s *RedisStore) Allow(ctx context.Context, key string, window time.Duration, limit int, now time.Time) (*Result, error) {
	k := s.prefix + key
	nowMs := now.UnixMilli()
	cutoff := now.Add(-window).UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(nowMs), Member: member})
	card := pipe.ZCard(ctx, k)
	oldest := pipe.ZRangeWithScores(ctx, k, 0, 0)
	pipe.PExpire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit window %s: %w", key, err)
	}

	count := int(card.Val())
	res := &Result{Limit: limit, Allowed: count <= limit}
	if !res.Allowed {
		if err := s.client.ZRem(ctx, k, member).Err(); err != nil {
			s.logger.Warn("failed to drop rejected request from window", zap.String("key", key), zap.Error(err))
		}
		count--
	}
	res.Remaining = max(0, limit-count)
	res.ResetAt = now.Add(window)
	if z := oldest.Val(); len(z) > 0 {
		res.ResetAt = time.UnixMilli(int64(z[0].Score)).Add(window)
	}
	return res, nil
}

// Close implements Store.Close
func (s *RedisStore) Close() error {
	return s.client.Close()
}
