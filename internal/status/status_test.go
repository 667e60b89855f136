package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/smorrow/strikewatch/internal/logic"
	"github.com/smorrow/strikewatch/internal/notify"
)

func newTestTracker() *Tracker {
	return NewTracker(time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), Config{
		QuietWindowMs:       500,
		PerChannelTimeoutMs: 10000,
		ThresholdKm:         5,
		Broker:              "tcp://localhost:1883",
		HTTPAddr:            ":8080",
		Channels:            []string{"slack", "sms"},
	})
}

func TestTrackerRecordEvent(t *testing.T) {
	tr := newTestTracker()

	tr.RecordEvent(logic.ClassifiedEvent{
		Kind:          logic.KindLightning,
		ObservedAt:    time.Date(2026, 6, 1, 18, 4, 0, 0, time.UTC),
		DistanceKm:    3,
		DistanceKnown: true,
	}, true)
	tr.RecordEvent(logic.ClassifiedEvent{Kind: logic.KindNoise}, true)
	tr.RecordEvent(logic.ClassifiedEvent{Kind: logic.KindDisturber}, true)

	snap := tr.Snapshot()
	if snap.Counts.Lightning != 1 || snap.Counts.Noise != 1 || snap.Counts.Disturber != 1 {
		t.Errorf("unexpected counts: %+v", snap.Counts)
	}
	if snap.LastEvent == nil || snap.LastEvent.Kind != logic.KindDisturber {
		t.Errorf("unexpected last event: %+v", snap.LastEvent)
	}
}

func TestTrackerDropAndErrorCounts(t *testing.T) {
	tr := newTestTracker()
	tr.RecordDebounceDrop()
	tr.RecordDebounceDrop()
	tr.RecordDecodeError()

	snap := tr.Snapshot()
	if snap.Counts.DebounceDrops != 2 {
		t.Errorf("expected 2 debounce drops, got %d", snap.Counts.DebounceDrops)
	}
	if snap.Counts.DecodeErrors != 1 {
		t.Errorf("expected 1 decode error, got %d", snap.Counts.DecodeErrors)
	}
}

func TestTrackerDispatchCounts(t *testing.T) {
	tr := newTestTracker()
	tr.RecordOutcome(notify.Outcome{Channel: "slack", Status: notify.StatusSent})
	tr.RecordOutcome(notify.Outcome{Channel: "sms", Status: notify.StatusFailed})
	tr.RecordOutcome(notify.Outcome{Channel: "mqtt", Status: notify.StatusTimedOut})
	tr.RecordOutcome(notify.Outcome{Channel: "slack", Status: notify.StatusSent})

	snap := tr.Snapshot()
	if snap.Dispatch.Sent != 2 || snap.Dispatch.Failed != 1 || snap.Dispatch.TimedOut != 1 {
		t.Errorf("unexpected dispatch counts: %+v", snap.Dispatch)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	tr := newTestTracker()
	tr.RecordEvent(logic.ClassifiedEvent{Kind: logic.KindNoise}, true)

	snap := tr.Snapshot()
	tr.RecordEvent(logic.ClassifiedEvent{Kind: logic.KindLightning, DistanceKnown: true, DistanceKm: 2}, true)

	if snap.LastEvent.Kind != logic.KindNoise {
		t.Error("snapshot should not observe later updates")
	}
}

func TestFormatJSON(t *testing.T) {
	tr := newTestTracker()
	tr.RecordEvent(logic.ClassifiedEvent{
		Kind:          logic.KindLightning,
		ObservedAt:    time.Date(2026, 6, 1, 18, 4, 0, 0, time.UTC),
		DistanceKm:    3,
		DistanceKnown: true,
	}, true)
	tr.SetMQTTConnected(true)

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.LastEvent == nil {
		t.Fatal("expected last_event in JSON")
	}
	if parsed.Status.LastEvent.Kind != "LIGHTNING" {
		t.Errorf("unexpected kind: %s", parsed.Status.LastEvent.Kind)
	}
	if parsed.Status.LastEvent.DistanceKm == nil || *parsed.Status.LastEvent.DistanceKm != 3 {
		t.Errorf("unexpected distance: %v", parsed.Status.LastEvent.DistanceKm)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected mqtt.connected true")
	}
	if parsed.Status.Event != "" {
		t.Errorf("web JSON should not carry a lifecycle event, got %q", parsed.Status.Event)
	}
	if parsed.Status.Config.ThresholdKm != 5 {
		t.Errorf("unexpected threshold: %d", parsed.Status.Config.ThresholdKm)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := newTestTracker()

	var parsed StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" || parsed.Status.Reason != "SIGTERM" {
		t.Errorf("unexpected event/reason: %s/%s", parsed.Status.Event, parsed.Status.Reason)
	}
}
