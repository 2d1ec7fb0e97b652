// Package ratelimit spaces page navigations across all monitors so the
// target site sees one polite client, not one client per product.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token bucket shared by every monitor goroutine.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing one navigation per minInterval, with a
// burst of one to strictly enforce spacing.
func New(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until a navigation ticket is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
