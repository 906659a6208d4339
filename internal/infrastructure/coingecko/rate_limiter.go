package coingecko

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by all calls to the price index.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a bucket holding burst tokens refilled at perSecond.
func NewRateLimiter(burst int, perSecond float64) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if perSecond <= 0 {
		perSecond = 1
	}
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// TryAcquire takes a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	return r.bucket.Allow()
}
