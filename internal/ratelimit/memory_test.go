package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SlidingWindow(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		res, err := s.Allow(ctx, "auth:1.2.3.4", 15*time.Minute, 5, start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 4-i, res.Remaining)
	}

	res, err := s.Allow(ctx, "auth:1.2.3.4", 15*time.Minute, 5, start.Add(10*time.Minute))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, start.Add(15*time.Minute), res.ResetAt)

	// Other clients have their own window
	res, err = s.Allow(ctx, "auth:5.6.7.8", 15*time.Minute, 5, start.Add(10*time.Minute))
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// The first hit slides out of the window
	res, err = s.Allow(ctx, "auth:1.2.3.4", 15*time.Minute, 5, start.Add(15*time.Minute+time.Second))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestMemoryStore_RejectedRequestsDoNotCount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.Allow(ctx, "k", time.Minute, 1, start)
	require.NoError(t, err)
	for i := 1; i < 10; i++ {
		res, err := s.Allow(ctx, "k", time.Minute, 1, start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.False(t, res.Allowed)
	}
	res, err := s.Allow(ctx, "k", time.Minute, 1, start.Add(time.Minute+time.Millisecond))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryStore_Sweep(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, _ = s.Allow(ctx, "a", time.Minute, 5, start)
	_, _ = s.Allow(ctx, "b", time.Hour, 5, start)
	assert.Equal(t, 2, s.size())

	_, _ = s.Allow(ctx, "c", time.Minute, 5, start.Add(5*time.Minute))
	assert.Equal(t, 2, s.size(), "expired window a is dropped, b and c remain")

	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.size())
}

func TestLimiter(t *testing.T) {
	s := NewMemoryStore()
	cfg := limitConfig()
	limiters := NewLimiters(s, &cfg)
	assert.Equal(t, PolicyAuth, limiters.Auth.Name())

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiters.Auth.now = func() time.Time { return now }
	limiters.API.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		res, err := limiters.Auth.Allow(context.Background(), "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := limiters.Auth.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// Policies keep separate windows for the same client
	res, err = limiters.API.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}
