package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/wkanaday/mepdir"
	"golang.org/x/time/rate"
)

var _ mepdir.DomainLimiter = (*HostLimiter)(nil)

// HostLimiter enforces a minimum delay between consecutive requests to the
// same host. Each host gets its own token bucket with a burst of 1, so
// requests to different hosts do not wait on each other.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewHostLimiter creates a HostLimiter that spaces requests to a host at
// least delay apart. A zero or negative delay disables limiting.
func NewHostLimiter(delay time.Duration) *HostLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to host may proceed.
// Returns an error if the context is canceled before the wait completes.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	h.mu.Lock()
	limiter, ok := h.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(h.limit, 1)
		h.limiters[host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}
