package mqttchan

import (
	"context"

	"github.com/smorrow/strikewatch/internal/logic"
)

// Fake records published events and alerts for test assertions.
type Fake struct {
	// Events contains all classified events that were published.
	Events []logic.ClassifiedEvent

	// EventPayloads contains the JSON payloads for events.
	EventPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// Alerts contains alert messages delivered via Send.
	Alerts []string

	// PublishError, if set, is returned by PublishEvent and Send.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFake creates a Fake for testing.
func NewFake() *Fake {
	return &Fake{Connected: true}
}

// Name returns the channel identifier.
func (f *Fake) Name() string {
	return "mqtt"
}

// Send records an alert message.
func (f *Fake) Send(_ context.Context, message string) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Alerts = append(f.Alerts, message)
	return nil
}

// PublishEvent records the classified event.
func (f *Fake) PublishEvent(ev logic.ClassifiedEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Events = append(f.Events, ev)

	payload, err := FormatEventPayload(ev)
	if err != nil {
		return err
	}
	f.EventPayloads = append(f.EventPayloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *Fake) PublishSystem(ev SystemEvent) error {
	f.SystemEvents = append(f.SystemEvents, ev)
	return nil
}

// IsConnected reports the scripted connection state.
func (f *Fake) IsConnected() bool {
	return f.Connected
}

// Close marks the publisher as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}
