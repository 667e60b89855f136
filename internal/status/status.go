// Package status provides a thread-safe status tracker for the strikewatch
// daemon, read by the HTTP handlers and embedded in MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/smorrow/strikewatch/internal/logic"
	"github.com/smorrow/strikewatch/internal/notify"
)

// Config contains daemon configuration for display.
type Config struct {
	QuietWindowMs       int64
	PerChannelTimeoutMs int64
	ThresholdKm         int
	Broker              string
	HTTPAddr            string
	Channels            []string
}

// EventInfo is the displayed summary of the most recent classified event.
type EventInfo struct {
	Kind          logic.EventKind
	ObservedAt    time.Time
	DistanceKm    int
	DistanceKnown bool
	Alerted       bool
}

// EventCounts tracks classified events by kind since startup.
type EventCounts struct {
	Noise     int
	Disturber int
	Lightning int
	// DebounceDrops counts interrupts rejected by the quiet window.
	DebounceDrops int
	// DecodeErrors counts interrupts with no recognizable status bit.
	DecodeErrors int
}

// DispatchCounts tracks per-status notification outcomes since startup.
type DispatchCounts struct {
	Sent     int
	Failed   int
	TimedOut int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	LastEvent     *EventInfo
	Counts        EventCounts
	Dispatch      DispatchCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordEvent notes a classified event and whether it was dispatched.
func (t *Tracker) RecordEvent(ev logic.ClassifiedEvent, alerted bool) {
	t.mu.Lock()
	info := EventInfo{
		Kind:          ev.Kind,
		ObservedAt:    ev.ObservedAt,
		DistanceKm:    ev.DistanceKm,
		DistanceKnown: ev.DistanceKnown,
		Alerted:       alerted,
	}
	t.snap.LastEvent = &info
	switch ev.Kind {
	case logic.KindNoise:
		t.snap.Counts.Noise++
	case logic.KindDisturber:
		t.snap.Counts.Disturber++
	case logic.KindLightning:
		t.snap.Counts.Lightning++
	}
	t.mu.Unlock()
}

// RecordDebounceDrop counts an interrupt rejected by the quiet window.
func (t *Tracker) RecordDebounceDrop() {
	t.mu.Lock()
	t.snap.Counts.DebounceDrops++
	t.mu.Unlock()
}

// RecordDecodeError counts an interrupt that could not be decoded.
func (t *Tracker) RecordDecodeError() {
	t.mu.Lock()
	t.snap.Counts.DecodeErrors++
	t.mu.Unlock()
}

// RecordOutcome counts one notification delivery outcome.
func (t *Tracker) RecordOutcome(o notify.Outcome) {
	t.mu.Lock()
	switch o.Status {
	case notify.StatusSent:
		t.snap.Dispatch.Sent++
	case notify.StatusFailed:
		t.snap.Dispatch.Failed++
	case notify.StatusTimedOut:
		t.snap.Dispatch.TimedOut++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if t.snap.LastEvent != nil {
		ev := *t.snap.LastEvent
		s.LastEvent = &ev
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
