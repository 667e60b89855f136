package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	LastEvent     *EventJSON   `json:"last_event,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Dispatch      DispatchJSON `json:"dispatch_counts"`
	Config        ConfigJSON   `json:"config"`
}

// EventJSON is the JSON representation of the last classified event.
type EventJSON struct {
	Kind          string `json:"kind"`
	ObservedAt    string `json:"observed_at"`
	DistanceKm    *int   `json:"distance_km,omitempty"`
	DistanceKnown bool   `json:"distance_known"`
	Alerted       bool   `json:"alerted"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Noise         int `json:"noise"`
	Disturber     int `json:"disturber"`
	Lightning     int `json:"lightning"`
	DebounceDrops int `json:"debounce_drops"`
	DecodeErrors  int `json:"decode_errors"`
}

// DispatchJSON is the JSON representation of dispatch outcome counts.
type DispatchJSON struct {
	Sent     int `json:"sent"`
	Failed   int `json:"failed"`
	TimedOut int `json:"timed_out"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	QuietWindowMs       int64    `json:"quiet_window_ms"`
	PerChannelTimeoutMs int64    `json:"per_channel_timeout_ms"`
	ThresholdKm         int      `json:"threshold_km"`
	Broker              string   `json:"broker,omitempty"`
	HTTPAddr            string   `json:"http_addr"`
	Channels            []string `json:"channels"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Noise:         snap.Counts.Noise,
			Disturber:     snap.Counts.Disturber,
			Lightning:     snap.Counts.Lightning,
			DebounceDrops: snap.Counts.DebounceDrops,
			DecodeErrors:  snap.Counts.DecodeErrors,
		},
		Dispatch: DispatchJSON{
			Sent:     snap.Dispatch.Sent,
			Failed:   snap.Dispatch.Failed,
			TimedOut: snap.Dispatch.TimedOut,
		},
		Config: ConfigJSON{
			QuietWindowMs:       snap.Config.QuietWindowMs,
			PerChannelTimeoutMs: snap.Config.PerChannelTimeoutMs,
			ThresholdKm:         snap.Config.ThresholdKm,
			Broker:              snap.Config.Broker,
			HTTPAddr:            snap.Config.HTTPAddr,
			Channels:            snap.Config.Channels,
		},
	}

	if snap.LastEvent != nil {
		ev := EventJSON{
			Kind:          string(snap.LastEvent.Kind),
			ObservedAt:    snap.LastEvent.ObservedAt.UTC().Format(time.RFC3339),
			DistanceKnown: snap.LastEvent.DistanceKnown,
			Alerted:       snap.LastEvent.Alerted,
		}
		if snap.LastEvent.DistanceKnown {
			km := snap.LastEvent.DistanceKm
			ev.DistanceKm = &km
		}
		inner.LastEvent = &ev
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
