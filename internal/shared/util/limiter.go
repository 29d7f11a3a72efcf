package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter caps how often an action may start.
type Limiter struct {
	inner *rate.Limiter
}

// PerMinute allows n events per minute with a burst of one. n <= 0 disables
// limiting.
func PerMinute(n int) *Limiter {
	if n <= 0 {
		return &Limiter{inner: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)}
}

// Allow reports whether an event may happen now, consuming a token if so.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait blocks until an event may happen or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
