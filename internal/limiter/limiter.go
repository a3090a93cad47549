package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces sequential page fetches so that consecutive requests
// are at least one interval apart.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	clock   Timer
}

// New creates a limiter using real time.
func New(interval time.Duration) *Limiter {
	return NewWithTimer(interval, Clock{})
}

// NewWithTimer creates a limiter with a custom clock.
// A non-positive interval disables pacing and yields a nil limiter.
func NewWithTimer(interval time.Duration, clock Timer) *Limiter {
	if interval <= 0 {
		return nil
	}

	if clock == nil {
		clock = Clock{}
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		clock:   clock,
	}
}

// Wait blocks until the next allowed request time or context cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	now := l.clock.Now()
	reservation := l.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	l.mu.Unlock()

	if delay <= 0 {
		return nil
	}

	if err := l.clock.Sleep(ctx, delay); err != nil {
		reservation.CancelAt(l.clock.Now())

		return err
	}

	return nil
}
