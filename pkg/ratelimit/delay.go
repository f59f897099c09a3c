package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

// DelayWindow produces randomized pauses drawn uniformly from [Min, Max].
// It is an anti-throttling control for pacing paginated provider requests,
// not a throughput knob: randomness approximates human browsing cadence.
type DelayWindow struct {
	Min time.Duration
	Max time.Duration
}

// NewDelayWindow builds a window, swapping bounds if they arrive inverted.
func NewDelayWindow(min, max time.Duration) DelayWindow {
	if max < min {
		min, max = max, min
	}
	return DelayWindow{Min: min, Max: max}
}

// Duration returns one randomized delay from the window.
func (w DelayWindow) Duration() time.Duration {
	if w.Max <= 0 {
		return 0
	}
	if w.Max == w.Min {
		return w.Min
	}
	return w.Min + time.Duration(rand.Int63n(int64(w.Max-w.Min)))
}

// Sleep pauses for one randomized delay, returning early if the context is
// cancelled.
func (w DelayWindow) Sleep(ctx context.Context) error {
	d := w.Duration()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
