package httpclient

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum delay between consecutive outbound requests to a
// rate-limited provider. It is a token bucket of size 1 whose refill interval
// equals the configured delay, so concurrent callers queue implicitly by
// awaiting the same gate. Share one instance per provider.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer with the given minimum inter-request interval.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until at least the configured interval has elapsed since the
// previous call was admitted, or until ctx is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
