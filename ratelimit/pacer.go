package ratelimit

import (
	"context"
	"sync"

	"github.com/fwojciec/parsekit"
	"golang.org/x/time/rate"
)

var _ parsekit.HostPacer = (*HostPacer)(nil)

// HostPacer spaces outbound requests per upstream host using token buckets,
// so concurrent requests to different hosts never wait on each other.
type HostPacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewHostPacer returns a pacer allowing rps requests per second per host
// with the given burst. A burst below 1 is raised to 1.
func NewHostPacer(rps float64, burst int) *HostPacer {
	return &HostPacer{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    max(burst, 1),
	}
}

// Wait blocks until a request to host may be sent.
// A pacer with a non-positive rate never blocks.
func (p *HostPacer) Wait(ctx context.Context, host string) error {
	if p.rps <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	limiter, ok := p.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.rps), p.burst)
		p.limiters[host] = limiter
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}
