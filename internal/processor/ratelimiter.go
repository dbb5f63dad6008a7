package processor

import (
	"context"

	"golang.org/x/time/rate"
)

const defaultSweepRPS = 20

// RateLimiter paces the bulk sweep so a large backlog of videos cannot
// starve the interactive match endpoints of CPU.
type RateLimiter struct {
	limiter *rate.Limiter
	logger  Logger
}

// NewRateLimiter creates a rate limiter.
// rps: videos per second; burst: maximum burst size.
func NewRateLimiter(rps, burst int, logger Logger) *RateLimiter {
	if rps <= 0 {
		rps = defaultSweepRPS
	}
	if burst <= 0 {
		burst = rps
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Wait blocks until the rate limit allows another video.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		if r.logger != nil {
			r.logger.Warn("rate limiter wait failed", "error", err)
		}
		return err
	}
	return nil
}

// Allow reports whether a video may proceed without waiting.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// SetLimit updates the sweep rate.
func (r *RateLimiter) SetLimit(rps int) {
	r.limiter.SetLimit(rate.Limit(rps))
	if r.logger != nil {
		r.logger.Info("sweep rate updated", "rps", rps)
	}
}
