// Package ratelimit provides a token-bucket gate backed by
// golang.org/x/time/rate. The worker uses it to cap how often
// stale-while-revalidate launches background refreshes; when the bucket is
// empty the refresh is skipped and the cached entry lives another round.
package ratelimit

import "golang.org/x/time/rate"

// Limiter wraps a token-bucket limiter that decides whether a background
// revalidation may run right now.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter creates a Limiter that permits rps revalidations per second with
// the given burst size.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a single revalidation may proceed.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}
