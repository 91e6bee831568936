package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type window struct {
	hits   []time.Time
	length time.Duration
}

// MemoryStore keeps one sliding log per key in process memory
type MemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

// NewMemoryStore creates a new memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
	}
}

// Allow implements Store.Allow
func (s *MemoryStore) Allow(_ context.Context, key string, length time.Duration, limit int, now time.Time) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > sweepInterval {
		s.sweep(now)
	}

	w, ok := s.windows[key]
	if !ok {
		w = &window{length: length}
		s.windows[key] = w
	}
	w.length = length
	w.hits = prune(w.hits, now.Add(-length))

	res := &Result{Limit: limit}
	if len(w.hits) < limit {
		w.hits = append(w.hits, now)
		res.Allowed = true
	}
	res.Remaining = limit - len(w.hits)
	if len(w.hits) > 0 {
		res.ResetAt = w.hits[0].Add(length)
	} else {
		res.ResetAt = now.Add(length)
	}
	return res, nil
}

// Close implements Store.Close
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = make(map[string]*window)
	return nil
}

// size returns the number of tracked keys
func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// sweep drops keys whose window has fully elapsed; callers hold mu
func (s *MemoryStore) sweep(now time.Time) {
	for key, w := range s.windows {
		if len(w.hits) == 0 || !w.hits[len(w.hits)-1].After(now.Add(-w.length)) {
			delete(s.windows, key)
		}
	}
	s.lastSweep = now
}

// prune drops hits at or before cutoff; hits are kept in ascending order
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0], hits[i:]...)
}
