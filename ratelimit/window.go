// Package ratelimit provides in-process admission control and per-host pacing.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/fwojciec/parsekit"
)

var _ parsekit.RateLimiter = (*WindowLimiter)(nil)

// WindowLimiter admits work per key under a short and a long fixed window.
// Each key has its own lock so admissions for different keys never contend
// beyond the map lookup.
type WindowLimiter struct {
	mu   sync.Mutex
	keys map[string]*keyState

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type keyState struct {
	mu    sync.Mutex
	short window
	long  window
}

// window is a counter that resets lazily once its expiry has passed.
type window struct {
	count   int
	expires time.Time
}

func (w *window) current(now time.Time) int {
	if !now.Before(w.expires) {
		return 0
	}
	return w.count
}

func (w *window) hit(now time.Time, length time.Duration) {
	if !now.Before(w.expires) {
		w.count = 0
		w.expires = now.Add(length)
	}
	w.count++
}

func (w *window) remaining(now time.Time, limit int) int {
	if limit <= 0 {
		return math.MaxInt
	}
	return max(limit-w.current(now), 0)
}

func (w *window) wait(now time.Time, limit int) time.Duration {
	if limit <= 0 || w.current(now) < limit {
		return 0
	}
	return w.expires.Sub(now)
}

// NewWindowLimiter returns an empty limiter.
func NewWindowLimiter() *WindowLimiter {
	return &WindowLimiter{
		keys: make(map[string]*keyState),
		Now:  time.Now,
	}
}

func (l *WindowLimiter) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// state returns the state for key, creating it on first use.
func (l *WindowLimiter) state(key string) *keyState {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.keys == nil {
		l.keys = make(map[string]*keyState)
	}
	s, ok := l.keys[key]
	if !ok {
		s = &keyState{}
		l.keys[key] = s
	}
	return s
}

// Admit reports whether key may proceed and, if so, counts the attempt in
// both windows. Rejected attempts are not counted.
func (l *WindowLimiter) Admit(key string, limit parsekit.RateLimit) bool {
	s := l.state(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.now()
	if s.short.remaining(now, limit.ShortLimit) == 0 || s.long.remaining(now, limit.LongLimit) == 0 {
		return false
	}
	s.short.hit(now, limit.ShortWindow)
	s.long.hit(now, limit.LongWindow)
	return true
}

// Remaining returns the capacity left in the more restrictive window.
// A key with both windows disabled reports math.MaxInt.
func (l *WindowLimiter) Remaining(key string, limit parsekit.RateLimit) int {
	s := l.state(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.now()
	return min(s.short.remaining(now, limit.ShortLimit), s.long.remaining(now, limit.LongLimit))
}

// AvailableIn returns how long until key may be admitted again.
// Zero means an admission would succeed now.
func (l *WindowLimiter) AvailableIn(key string, limit parsekit.RateLimit) time.Duration {
	s := l.state(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.now()
	return max(s.short.wait(now, limit.ShortLimit), s.long.wait(now, limit.LongLimit))
}

// Clear resets both windows of key.
func (l *WindowLimiter) Clear(key string) {
	s := l.state(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.short = window{}
	s.long = window{}
}

// Hits returns the short-window count of key.
func (l *WindowLimiter) Hits(key string) int {
	s := l.state(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.short.current(l.now())
}
