// Package notify fans alert messages out to independently-failing
// notification channels, each bounded by its own timeout.
package notify

import (
	"context"
	"time"
)

// Notifier is one outbound notification channel (Slack, SMS, MQTT, ...).
// Implementations must be safe for use from the dispatcher's goroutines and
// should honor ctx cancellation where their transport allows it.
type Notifier interface {
	// Name returns the channel identifier used in outcomes and logs.
	Name() string

	// Send delivers a message. Returns an error if delivery fails.
	Send(ctx context.Context, message string) error
}

// Status is the terminal state of one channel delivery attempt.
type Status string

const (
	StatusSent     Status = "SENT"
	StatusFailed   Status = "FAILED"
	StatusTimedOut Status = "TIMED_OUT"
)

// Request describes one alert fan-out.
type Request struct {
	Message string
	// Channels is the enabled subset to attempt. May be empty.
	Channels []Notifier
	// PerChannelTimeout bounds each channel independently; all channels run
	// concurrently, so total dispatch latency is bounded by this value, not
	// its sum across channels.
	PerChannelTimeout time.Duration
}

// Outcome is the per-channel result of one dispatch.
type Outcome struct {
	Channel string
	Status  Status
	// Error holds the failure text for StatusFailed and StatusTimedOut.
	Error string
	// Elapsed is how long the attempt took (capped near the timeout for
	// timed-out channels).
	Elapsed time.Duration
}
