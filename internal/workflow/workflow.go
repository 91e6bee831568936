// Package workflow holds the status transition rules of complaints and
// investigations. Every state change of a case goes through an Engine so the
// role tables, the terminal guards and the timeline stay in one place.
package workflow

import (
	"errors"
	"slices"
	"time"

	"github.com/amoylab/casedesk/internal/common/cnst"
)

var (
	// ErrStatusNotAllowed means the role may never set the target status
	ErrStatusNotAllowed = errors.New("status not allowed for role")
	// ErrInvalidTransition means the target is not reachable from the current status
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrClosed means the case no longer accepts changes
	ErrClosed = errors.New("case is closed")
	// ErrUseComplete means completion needs a conclusion and goes through Complete
	ErrUseComplete = errors.New("completion requires a conclusion")
	// ErrNotAssigned means the actor is neither the assigned investigator nor a manager
	ErrNotAssigned = errors.New("actor is not assigned to the case")
	// ErrUnknownEvidence means a finding cites evidence the investigation does not hold
	ErrUnknownEvidence = errors.New("unknown evidence reference")
)

// Actor is the user performing a transition
type Actor struct {
	ID   string
	Role cnst.Role
}

// Engine applies transitions. With strict set, a target status must also be
// reachable from the current one; the per-role allow-list always applies.
type Engine struct {
	strict bool
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine
func New(strict bool, opts ...Option) *Engine {
	e := &Engine{strict: strict, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strict reports whether the transition graph is enforced
func (e *Engine) Strict() bool {
	return e.strict
}

// Now returns the engine clock in UTC
func (e *Engine) Now() time.Time {
	return e.now().UTC()
}

func contains[T comparable](list []T, v T) bool {
	return slices.Contains(list, v)
}
