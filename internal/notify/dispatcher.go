package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Dispatch delivers req.Message to every channel concurrently and collects
// exactly one Outcome per channel. It returns once every channel has either
// settled or hit PerChannelTimeout, so the caller blocks for at most the
// timeout of the single slowest channel.
//
// A channel that misses its deadline is abandoned, not cancelled: its send
// goroutine may still be running, but its eventual result is discarded.
// Failures and panics in one channel never affect siblings.
func Dispatch(ctx context.Context, req Request) []Outcome {
	if len(req.Channels) == 0 {
		return nil
	}

	results := make(chan Outcome, len(req.Channels))
	for _, n := range req.Channels {
		go func(n Notifier) {
			results <- attempt(ctx, n, req.Message, req.PerChannelTimeout)
		}(n)
	}

	outcomes := make([]Outcome, 0, len(req.Channels))
	for range req.Channels {
		outcomes = append(outcomes, <-results)
	}
	return outcomes
}

// attempt races one channel's Send against the per-channel deadline.
func attempt(ctx context.Context, n Notifier, message string, timeout time.Duration) Outcome {
	start := time.Now()

	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a late send result never blocks the abandoned goroutine.
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- n.Send(sendCtx, message)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		elapsed := time.Since(start)
		if err == nil {
			return Outcome{Channel: n.Name(), Status: StatusSent, Elapsed: elapsed}
		}
		// A ctx-aware notifier reports its own deadline as an error; keep the
		// taxonomy consistent with the timer path.
		if errors.Is(err, context.DeadlineExceeded) {
			return Outcome{Channel: n.Name(), Status: StatusTimedOut, Error: err.Error(), Elapsed: elapsed}
		}
		return Outcome{Channel: n.Name(), Status: StatusFailed, Error: err.Error(), Elapsed: elapsed}
	case <-timer.C:
		return Outcome{
			Channel: n.Name(),
			Status:  StatusTimedOut,
			Error:   fmt.Sprintf("no response within %v", timeout),
			Elapsed: time.Since(start),
		}
	}
}
