// Package ratelimit implements a sliding window request limiter keyed by
// client. Windows live in process memory or in redis when several api
// servers share one budget.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the window of one key after a request was counted
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts requests in a sliding window
type Store interface {
	// Allow records a request at now unless limit requests already happened
	// within window, and reports the state of the window.
	Allow(ctx context.Context, key string, window time.Duration, limit int, now time.Time) (*Result, error)

	// Close releases the resources of the store
	Close() error
}
