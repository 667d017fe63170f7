package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces out calls to one remote endpoint. The zero value is not
// usable; construct instances with New.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSleep overrides the sleep function.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(l *Limiter) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// New creates a limiter that keeps at least interval between calls to Wait.
// A non-positive interval disables waiting entirely.
func New(interval time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until the limiter's interval has elapsed since the previous
// call to Wait on this instance, then records the current time as the new
// last-access timestamp. The mutex is held across the sleep so concurrent
// callers to the same endpoint are granted access one at a time, each spaced
// by the full interval. Returns early with the context error when the
// context is cancelled mid-wait.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.interval > 0 && !l.last.IsZero() {
		delta := l.interval - l.now().Sub(l.last)
		if delta > 0 {
			if err := l.sleep(ctx, delta); err != nil {
				return err
			}
		}
	}
	l.last = l.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
