package notify

import (
	"context"
	"sync"
	"time"
)

// FakeNotifier is a test double implementing Notifier.
type FakeNotifier struct {
	// ChannelName is returned by Name.
	ChannelName string

	// SendError, if set, is returned by Send after Delay.
	SendError error

	// Delay is how long Send blocks before returning.
	Delay time.Duration

	// Block, if set, makes Send hang until the context is done, ignoring the
	// context error (simulates a non-cancellable collaborator).
	Block bool

	// PanicMsg, if set, makes Send panic.
	PanicMsg string

	mu   sync.Mutex
	sent []string
}

// NewFakeNotifier creates a fake channel with the given name.
func NewFakeNotifier(name string) *FakeNotifier {
	return &FakeNotifier{ChannelName: name}
}

// Name returns the configured channel name.
func (f *FakeNotifier) Name() string {
	return f.ChannelName
}

// Send records the message, honoring the configured delay/block/error/panic.
func (f *FakeNotifier) Send(ctx context.Context, message string) error {
	if f.PanicMsg != "" {
		panic(f.PanicMsg)
	}
	if f.Block {
		<-ctx.Done()
		// Keep hanging a little past cancellation, like a stuck socket.
		time.Sleep(10 * time.Millisecond)
		return ctx.Err()
	}
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.SendError != nil {
		return f.SendError
	}
	f.mu.Lock()
	f.sent = append(f.sent, message)
	f.mu.Unlock()
	return nil
}

// Sent returns a copy of all successfully recorded messages.
func (f *FakeNotifier) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}
