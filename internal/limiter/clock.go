package limiter

import (
	"context"
	"time"
)

// Timer provides time for load-time measurement, report timestamps and pacing.
type Timer interface {
	Now() time.Time
	Sleep(ctx context.Context, duration time.Duration) error
}

// Clock is the wall-clock Timer.
type Clock struct{}

func NewClock() Clock {
	return Clock{}
}

func (Clock) Now() time.Time {
	return time.Now()
}

func (Clock) Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Elapsed returns the time passed since start according to timer.
// A nil timer falls back to the wall clock.
func Elapsed(timer Timer, start time.Time) time.Duration {
	if timer == nil {
		timer = Clock{}
	}

	elapsed := timer.Now().Sub(start)
	if elapsed < 0 {
		return 0
	}

	return elapsed
}
