package pipeline

import (
	"sync"
	"time"
)

// Clock returns the current time. It is injected so eviction behavior can be
// tested without real wall-clock delays.
type Clock func() time.Time

// Inflight tracks image identities that are currently being processed, or
// finished so recently that a duplicate trigger should still be ignored.
//
// The watch mechanism can deliver near-simultaneous duplicate events for the
// same file (create followed by write, or the pipeline's own write-back), so
// membership is not dropped at completion: an identity stays blocked for a
// fixed delay after its run finishes and is evicted lazily afterwards.
//
// Inflight is safe for concurrent use.
type Inflight struct {
	mu    sync.Mutex
	now   Clock
	delay time.Duration
	// done holds the completion time per identity; the zero time means the
	// run is still active.
	done map[string]time.Time
}

// NewInflight creates an in-flight set whose entries stay blocked for delay
// after completion. A nil clock defaults to time.Now.
func NewInflight(delay time.Duration, now Clock) *Inflight {
	if now == nil {
		now = time.Now
	}
	return &Inflight{
		now:   now,
		delay: delay,
		done:  make(map[string]time.Time),
	}
}

// TryAcquire claims an identity for processing.
//
// It returns false while a run for the same identity is active or finished
// less than the eviction delay ago; such requests must be dropped by the
// caller, never queued.
func (s *Inflight) TryAcquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if t, ok := s.done[id]; ok {
		if t.IsZero() || now.Sub(t) < s.delay {
			return false
		}
	}
	s.done[id] = time.Time{}
	return true
}

// Release marks an identity's run as finished. The identity stays blocked
// until the eviction delay has passed.
func (s *Inflight) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.done[id]; ok && t.IsZero() {
		s.done[id] = s.now()
	}
}

// sweep drops entries whose post-completion delay has fully elapsed.
// Caller must hold mu.
func (s *Inflight) sweep(now time.Time) {
	for id, t := range s.done {
		if !t.IsZero() && now.Sub(t) >= s.delay {
			delete(s.done, id)
		}
	}
}
