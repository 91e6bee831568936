package ratelimit

import (
	"context"
	"time"

	"github.com/amoylab/casedesk/internal/common/config"
)

// Policy names
const (
	PolicyAuth    = "auth"
	PolicyGeneral = "general"
	PolicyAPI     = "api"
)

// Limiter applies one policy on top of a shared store
type Limiter struct {
	store  Store
	name   string
	window time.Duration
	max    int
	now    func() time.Time
}

// NewLimiter creates a limiter for the named policy
func NewLimiter(store Store, name string, policy config.RatePolicy) *Limiter {
	return &Limiter{
		store:  store,
		name:   name,
		window: policy.Window,
		max:    policy.Max,
		now:    time.Now,
	}
}

// Name returns the policy name
func (l *Limiter) Name() string {
	return l.name
}

// Allow counts a request of client against the policy
func (l *Limiter) Allow(ctx context.Context, client string) (*Result, error) {
	return l.store.Allow(ctx, l.name+":"+client, l.window, l.max, l.now())
}

// Limiters groups the configured policies
type Limiters struct {
	Auth    *Limiter
	General *Limiter
	API     *Limiter
}

// NewLimiters builds the auth, general and api limiters over store
func NewLimiters(store Store, cfg *config.RateLimitConfig) *Limiters {
	return &Limiters{
		Auth:    NewLimiter(store, PolicyAuth, cfg.Auth),
		General: NewLimiter(store, PolicyGeneral, cfg.General),
		API:     NewLimiter(store, PolicyAPI, cfg.API),
	}
}
