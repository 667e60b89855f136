package interrupt

import "time"

// FakeWatcher is a test double whose edges are fired by the test.
type FakeWatcher struct {
	events chan time.Time

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeWatcher creates a FakeWatcher with a buffered event channel.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{events: make(chan time.Time, 16)}
}

// Fire injects one edge with the given timestamp.
func (f *FakeWatcher) Fire(t time.Time) {
	f.events <- t
}

// Events returns the edge timestamp channel.
func (f *FakeWatcher) Events() <-chan time.Time {
	return f.events
}

// Close marks the watcher as closed.
func (f *FakeWatcher) Close() error {
	f.Closed = true
	return nil
}
