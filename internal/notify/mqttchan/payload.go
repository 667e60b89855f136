package mqttchan

import (
	"encoding/json"
	"time"

	"github.com/smorrow/strikewatch/internal/logic"
)

// EventPayload is the MQTT message envelope for classified events.
type EventPayload struct {
	Lightning EventInner `json:"lightning"`
}

// EventInner contains the event details.
type EventInner struct {
	Timestamp     string `json:"timestamp"`
	Kind          string `json:"kind"`
	DistanceKm    *int   `json:"distance_km,omitempty"`
	DistanceKnown bool   `json:"distance_known"`
}

// FormatEventPayload creates the JSON payload for a classified event.
// The distance field is present only for lightning with a known distance,
// matching the classification invariant.
func FormatEventPayload(ev logic.ClassifiedEvent) ([]byte, error) {
	inner := EventInner{
		Timestamp: ev.ObservedAt.UTC().Format(time.RFC3339),
		Kind:      string(ev.Kind),
	}
	if ev.Kind == logic.KindLightning {
		inner.DistanceKnown = ev.DistanceKnown
		if ev.DistanceKnown {
			km := ev.DistanceKm
			inner.DistanceKm = &km
		}
	}
	return json.Marshal(EventPayload{Lightning: inner})
}

// SystemPayload is the MQTT envelope for simple lifecycle events.
type SystemPayload struct {
	System SystemInner `json:"system"`
}

// SystemInner contains the lifecycle event details.
type SystemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If ev.RawPayload is set, it is returned directly (full status snapshots).
func FormatSystemPayload(ev SystemEvent) ([]byte, error) {
	if ev.RawPayload != nil {
		return ev.RawPayload, nil
	}
	return json.Marshal(SystemPayload{
		System: SystemInner{
			Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
			Event:     ev.Event,
			Reason:    ev.Reason,
		},
	})
}
