package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(zap.NewNop(), &config.RedisConfig{
		ClusterType: cnst.RedisClusterTypeSingle,
		Addr:        mr.Addr(),
		Prefix:      "test:rl:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SlidingWindow(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		res, err := s.Allow(ctx, "api:ip", time.Minute, 3, start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := s.Allow(ctx, "api:ip", time.Minute, 3, start.Add(10*time.Second))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, start.Add(time.Minute), res.ResetAt)

	members, err := mr.ZMembers("test:rl:api:ip")
	require.NoError(t, err)
	assert.Len(t, members, 3, "rejected request is removed from the set")
	assert.True(t, mr.TTL("test:rl:api:ip") > 0)

	res, err = s.Allow(ctx, "api:ip", time.Minute, 3, start.Add(time.Minute+time.Millisecond))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisStore_ConnectError(t *testing.T) {
	_, err := NewRedisStore(zap.NewNop(), &config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	logger := zap.NewNop()

	t.Run("memory", func(t *testing.T) {
		store, err := NewStore(logger, &config.RateLimitConfig{Store: "memory"})
		require.NoError(t, err)
		_, ok := store.(*MemoryStore)
		assert.True(t, ok)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := NewStore(logger, &config.RateLimitConfig{
			Store: "redis",
			Redis: config.RedisConfig{ClusterType: cnst.RedisClusterTypeSingle, Addr: mr.Addr()},
		})
		require.NoError(t, err)
		defer store.Close()
		_, ok := store.(*RedisStore)
		assert.True(t, ok)
	})

	t.Run("unsupported", func(t *testing.T) {
		store, err := NewStore(logger, &config.RateLimitConfig{Store: "etcd"})
		assert.Nil(t, store)
		assert.EqualError(t, err, "unsupported rate limit store type: etcd")
	})
}

func limitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Store:   "memory",
		Auth:    config.RatePolicy{Window: 15 * time.Minute, Max: 2},
		General: config.RatePolicy{Window: 15 * time.Minute, Max: 100},
		API:     config.RatePolicy{Window: time.Minute, Max: 3},
	}
}
