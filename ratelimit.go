package parsekit

import (
	"context"
	"strings"
	"time"
)

// RateLimit bounds how many executions a key may start within two windows.
// A non-positive limit disables its window.
type RateLimit struct {
	ShortLimit  int           `json:"short_limit"`
	ShortWindow time.Duration `json:"short_window"`
	LongLimit   int           `json:"long_limit"`
	LongWindow  time.Duration `json:"long_window"`
}

// RateLimiter tracks admissions per key over a short and a long window.
// Implementations must serialize the check-then-increment per key.
type RateLimiter interface {
	// Admit records an attempt for key and reports whether it may proceed.
	// A rejected attempt is not counted.
	Admit(key string, limit RateLimit) bool

	// Remaining returns the capacity left in the more restrictive window.
	Remaining(key string, limit RateLimit) int

	// AvailableIn returns how long until a rejected key may be admitted again.
	AvailableIn(key string, limit RateLimit) time.Duration

	// Clear resets both windows for key.
	Clear(key string)

	// Hits returns the short-window count for key.
	Hits(key string) int
}

// RateLimitPolicy resolves the limit that applies to a strategy name.
type RateLimitPolicy struct {
	Default RateLimit
	Parsers map[string]RateLimit
}

// For returns the limit configured for name, or the default.
func (p RateLimitPolicy) For(name string) RateLimit {
	if l, ok := p.Parsers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l
	}
	return p.Default
}

// HostPacer spaces outbound requests to the same upstream host.
type HostPacer interface {
	// Wait blocks until a request to host may be sent.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, host string) error
}
