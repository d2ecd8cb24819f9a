package mock

import (
	"context"
	"time"

	"github.com/fwojciec/parsekit"
)

var _ parsekit.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of parsekit.RateLimiter.
type RateLimiter struct {
	AdmitFn       func(key string, limit parsekit.RateLimit) bool
	RemainingFn   func(key string, limit parsekit.RateLimit) int
	AvailableInFn func(key string, limit parsekit.RateLimit) time.Duration
	ClearFn       func(key string)
	HitsFn        func(key string) int
}

func (l *RateLimiter) Admit(key string, limit parsekit.RateLimit) bool {
	return l.AdmitFn(key, limit)
}

func (l *RateLimiter) Remaining(key string, limit parsekit.RateLimit) int {
	return l.RemainingFn(key, limit)
}

func (l *RateLimiter) AvailableIn(key string, limit parsekit.RateLimit) time.Duration {
	return l.AvailableInFn(key, limit)
}

func (l *RateLimiter) Clear(key string) {
	l.ClearFn(key)
}

func (l *RateLimiter) Hits(key string) int {
	return l.HitsFn(key)
}

var _ parsekit.HostPacer = (*HostPacer)(nil)

// HostPacer is a mock implementation of parsekit.HostPacer.
type HostPacer struct {
	WaitFn func(ctx context.Context, host string) error
}

func (p *HostPacer) Wait(ctx context.Context, host string) error {
	return p.WaitFn(ctx, host)
}
