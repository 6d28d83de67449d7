package parallelisation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type IWaiter interface {
	Wait() error
}

// WaitWithContext waits for `wg` to complete unless the context is cancelled first.
func WaitWithContext(ctx context.Context, wg IWaiter) (err error) {
	done := make(chan struct{})
	var g errgroup.Group
	g.SetLimit(1)
	g.Go(func() error {
		defer close(done)
		return wg.Wait()
	})
	select {
	case <-ctx.Done():
		return DetermineContextError(ctx)
	case <-done:
		return g.Wait() // since there is only one this will return when wg does
	}
}

// SleepWithContext performs an interruptable sleep.
func SleepWithContext(ctx context.Context, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// SchedulePeriodically calls `f` every `period` until the context is cancelled. The returned function blocks until the scheduling goroutine has exited.
func SchedulePeriodically(ctx context.Context, period time.Duration, f func(time.Time)) (wait func()) {
	done := make(chan struct{})
	wait = func() { <-done }
	if period <= 0 || f == nil {
		close(done)
		return
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case v := <-ticker.C:
				f(v)
			case <-ctx.Done():
				return
			}
		}
	}()
	return
}
