package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestWaitSleepsForRemainingInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var slept []time.Duration
	limiter := New(5*time.Second,
		WithClock(clock.Now),
		WithSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			clock.Advance(d)
			return nil
		}),
	)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait returned error: %v", err)
	}
	if len(slept) != 0 {
		t.Fatalf("first Wait should not sleep, slept %v", slept)
	}

	clock.Advance(2 * time.Second)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait returned error: %v", err)
	}
	if len(slept) != 1 || slept[0] != 3*time.Second {
		t.Fatalf("expected one 3s sleep, got %v", slept)
	}
}

func TestWaitReturnsImmediatelyAfterInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	limiter := New(2*time.Second,
		WithClock(clock.Now),
		WithSleep(func(_ context.Context, d time.Duration) error {
			t.Fatalf("unexpected sleep of %v", d)
			return nil
		}),
	)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	clock.Advance(3 * time.Second)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
}

func TestWaitEnforcesWallClockSpacing(t *testing.T) {
	limiter := New(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d returned error: %v", i, err)
		}
	}
	// Two gaps of 30ms each; allow scheduling jitter below the floor.
	if elapsed := time.Since(start); elapsed < 55*time.Millisecond {
		t.Fatalf("three waits finished in %v, want at least 55ms", elapsed)
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	limiter := New(time.Hour, WithClock(clock.Now))

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("priming Wait returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestZeroIntervalNeverSleeps(t *testing.T) {
	limiter := New(0, WithSleep(func(_ context.Context, d time.Duration) error {
		t.Fatalf("unexpected sleep of %v", d)
		return nil
	}))
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
}
