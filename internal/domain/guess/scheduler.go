package guess

import (
	"context"
	"time"
)

// Scheduler drives time-bounded value ramps. Implementations must call
// step with monotonically increasing progress values in [0, 1] and end
// with progress 1 unless the context is canceled first.
type Scheduler interface {
	Schedule(ctx context.Context, d time.Duration, step func(progress float64))
}

// tickerScheduler delivers ticks from a time.Ticker on a background
// goroutine. Ticks are cooperative and non-blocking for the caller.
type tickerScheduler struct {
	interval time.Duration
}

// NewTickerScheduler creates a Scheduler ticking at the given interval.
func NewTickerScheduler(interval time.Duration) Scheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &tickerScheduler{interval: interval}
}

func (s *tickerScheduler) Schedule(ctx context.Context, d time.Duration, step func(progress float64)) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				progress := float64(now.Sub(start)) / float64(d)
				if progress >= 1 {
					step(1)
					return
				}
				step(progress)
			}
		}
	}()
}

// ImmediateScheduler completes every ramp in a single synchronous step.
// Useful for non-animated renditions and tests.
type ImmediateScheduler struct{}

// Schedule calls step once with progress 1.
func (ImmediateScheduler) Schedule(_ context.Context, _ time.Duration, step func(progress float64)) {
	step(1)
}
