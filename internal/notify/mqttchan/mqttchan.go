// Package mqttchan publishes lightning events over MQTT and exposes the
// alerts topic as a notification channel.
package mqttchan

import (
	"time"

	"github.com/smorrow/strikewatch/internal/logic"
)

// TopicAlerts carries rendered alert text, mirroring the other channels.
const TopicAlerts = "weather/lightning/alerts"

// TopicEvents carries one machine-readable record per classified event,
// including suppressed ones.
const TopicEvents = "weather/lightning/events"

// TopicSystem carries daemon lifecycle events.
const TopicSystem = "weather/lightning/system"

// Publisher publishes the machine-readable event feed.
type Publisher interface {
	// PublishEvent sends one classified event to the broker.
	// Returns error if publishing fails (must not crash the process).
	PublishEvent(ev logic.ClassifiedEvent) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(ev SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a daemon lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // "STARTUP", "SHUTDOWN"
	Reason    string // signal name, shutdown only
	// RawPayload, if set, is published verbatim instead of the default
	// envelope (used for full status snapshots).
	RawPayload []byte
	Retained   bool
}
