package mqttchan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/smorrow/strikewatch/internal/logic"
)

func TestFormatEventPayloadLightning(t *testing.T) {
	ev := logic.ClassifiedEvent{
		Kind:          logic.KindLightning,
		ObservedAt:    time.Date(2026, 6, 1, 18, 4, 12, 0, time.UTC),
		DistanceKm:    3,
		DistanceKnown: true,
	}

	payload, err := FormatEventPayload(ev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed EventPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Lightning.Timestamp != "2026-06-01T18:04:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Lightning.Timestamp)
	}
	if parsed.Lightning.Kind != "LIGHTNING" {
		t.Errorf("unexpected kind: %s", parsed.Lightning.Kind)
	}
	if parsed.Lightning.DistanceKm == nil || *parsed.Lightning.DistanceKm != 3 {
		t.Errorf("unexpected distance: %v", parsed.Lightning.DistanceKm)
	}
	if !parsed.Lightning.DistanceKnown {
		t.Error("expected distance_known true")
	}
}

func TestFormatEventPayloadLightningUnknownDistance(t *testing.T) {
	ev := logic.ClassifiedEvent{
		Kind:       logic.KindLightning,
		ObservedAt: time.Now(),
	}

	payload, err := FormatEventPayload(ev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed EventPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Lightning.DistanceKm != nil {
		t.Error("unknown distance must omit distance_km")
	}
	if parsed.Lightning.DistanceKnown {
		t.Error("expected distance_known false")
	}
}

func TestFormatEventPayloadNoiseOmitsDistance(t *testing.T) {
	payload, err := FormatEventPayload(logic.ClassifiedEvent{
		Kind:       logic.KindNoise,
		ObservedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["lightning"]["distance_km"]; present {
		t.Error("noise event must not carry distance_km")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" || parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected payload: %+v", parsed.System)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"event":"STARTUP","custom":true}}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through: %s", payload)
	}
}
