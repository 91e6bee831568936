package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Layer names where a lookup was answered
type Layer string

const (
	L1Memory Layer = "memory"
	L2Redis  Layer = "redis"
)

// Stats counts lookups per layer
type Stats struct {
	L1Hits    int64   `json:"l1_hits"`
	L2Hits    int64   `json:"l2_hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Entries   int     `json:"entries"`
	HitRate   float64 `json:"hit_rate"`
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// MultiLayer keeps values in a bounded in-process LRU (L1) and, when a redis
// client is given, in redis (L2) so that every instance sees the same values.
type MultiLayer[T any] struct {
	logger     *zap.Logger
	l2         redis.Cmdable
	keyPrefix  string
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front is most recently used

	l1Hits, l2Hits, misses, evictions atomic.Int64
}

// Config holds configuration for the cache
type Config struct {
	RedisClient redis.Cmdable // optional
	KeyPrefix   string
	TTL         time.Duration
	MaxEntries  int
}

// NewMultiLayer creates a new multi-layer cache instance
func NewMultiLayer[T any](cfg Config, logger *zap.Logger) *MultiLayer[T] {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1024
	}
	return &MultiLayer[T]{
		logger:     logger.Named("cache.multilayer"),
		l2:         cfg.RedisClient,
		keyPrefix:  cfg.KeyPrefix,
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		now:        time.Now,
		items:      make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get looks key up in L1 first, then L2. An L2 hit is promoted to L1.
func (c *MultiLayer[T]) Get(ctx context.Context, key string) (T, Layer, bool) {
	if v, ok := c.getFromL1(key); ok {
		c.l1Hits.Add(1)
		return v, L1Memory, true
	}
	if v, ok := c.getFromL2(ctx, key); ok {
		c.setToL1(key, v)
		c.l2Hits.Add(1)
		return v, L2Redis, true
	}
	c.misses.Add(1)
	var zero T
	return zero, "", false
}

// Set stores value in both layers
func (c *MultiLayer[T]) Set(ctx context.Context, key string, value T) error {
	c.setToL1(key, value)
	if c.l2 == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return c.l2.Set(ctx, c.redisKey(key), data, c.ttl).Err()
}

// Delete removes key from both layers
func (c *MultiLayer[T]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	c.mu.Unlock()
	if c.l2 == nil {
		return nil
	}
	return c.l2.Del(ctx, c.redisKey(key)).Err()
}

// Stats returns a snapshot of the counters
func (c *MultiLayer[T]) Stats() Stats {
	c.mu.Lock()
	n := len(c.items)
	c.mu.Unlock()

	s := Stats{
		L1Hits:    c.l1Hits.Load(),
		L2Hits:    c.l2Hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   n,
	}
	if total := s.L1Hits + s.L2Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.L1Hits+s.L2Hits) / float64(total)
	}
	return s
}

func (c *MultiLayer[T]) getFromL1(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[T])
	if !c.now().Before(e.expiresAt) {
		c.removeElement(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

func (c *MultiLayer[T]) setToL1(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[T])
		e.value, e.expiresAt = value, expiresAt
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&entry[T]{key: key, value: value, expiresAt: expiresAt})
	for c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
		c.evictions.Add(1)
	}
}

// removeElement expects c.mu to be held
func (c *MultiLayer[T]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[T]).key)
}

func (c *MultiLayer[T]) getFromL2(ctx context.Context, key string) (T, bool) {
	var v T
	if c.l2 == nil {
		return v, false
	}
	data, err := c.l2.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false
	}
	if err != nil {
		c.logger.Error("failed to get from L2 cache", zap.String("key", key), zap.Error(err))
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Error("failed to unmarshal L2 cache entry", zap.String("key", key), zap.Error(err))
		return v, false
	}
	return v, true
}

func (c *MultiLayer[T]) redisKey(key string) string {
	return c.keyPrefix + key
}
