// Package ratelimit provides the pacing controls that keep igfetch under
// Instagram's abuse-detection thresholds.
//
// Two mechanisms are provided:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Guards the absolute API call budget per session
//
// Delay Window:
//   - Randomized sleep drawn uniformly from a [min, max] window
//   - Inserted between consecutive page fetches and downloads to
//     approximate human pacing
//
// Usage:
//
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//	if !limiter.Allow() {
//	    limiter.Wait()
//	}
//
//	window := ratelimit.NewDelayWindow(1500*time.Millisecond, 4*time.Second)
//	_ = window.Sleep(ctx) // between page fetches
package ratelimit
