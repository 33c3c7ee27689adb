package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces outbound calls by a fixed interval. The first call goes out
// immediately; each later call waits until delay has passed since the last.
type Pacer struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewPacer returns a pacer for delay. A zero or negative delay never waits.
func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(delay), 1), delay: delay}
}

// Wait blocks until the next call may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}

// Delay reports the configured spacing.
func (p *Pacer) Delay() time.Duration {
	if p == nil {
		return 0
	}
	return p.delay
}
