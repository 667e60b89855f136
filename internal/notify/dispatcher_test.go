package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomeFor(t *testing.T, outcomes []Outcome, channel string) Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Channel == channel {
			return o
		}
	}
	t.Fatalf("no outcome for channel %q in %+v", channel, outcomes)
	return Outcome{}
}

func TestDispatchEmptyChannelSet(t *testing.T) {
	outcomes := Dispatch(context.Background(), Request{
		Message:           "hello",
		PerChannelTimeout: time.Second,
	})
	assert.Empty(t, outcomes)
}

func TestDispatchAllSucceed(t *testing.T) {
	a := NewFakeNotifier("slack")
	b := NewFakeNotifier("twilio")

	outcomes := Dispatch(context.Background(), Request{
		Message:           "⚡ strike",
		Channels:          []Notifier{a, b},
		PerChannelTimeout: time.Second,
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusSent, outcomeFor(t, outcomes, "slack").Status)
	assert.Equal(t, StatusSent, outcomeFor(t, outcomes, "twilio").Status)
	assert.Equal(t, []string{"⚡ strike"}, a.Sent())
	assert.Equal(t, []string{"⚡ strike"}, b.Sent())
}

func TestDispatchTimeoutDoesNotBlockSiblings(t *testing.T) {
	fast := NewFakeNotifier("fast")
	fast.Delay = 50 * time.Millisecond
	stuck := NewFakeNotifier("stuck")
	stuck.Block = true

	start := time.Now()
	outcomes := Dispatch(context.Background(), Request{
		Message:           "msg",
		Channels:          []Notifier{fast, stuck},
		PerChannelTimeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusSent, outcomeFor(t, outcomes, "fast").Status)
	assert.Equal(t, StatusTimedOut, outcomeFor(t, outcomes, "stuck").Status)

	// Bounded by the single timeout, not the sum of both channels.
	assert.Less(t, elapsed, 400*time.Millisecond,
		"dispatch should return in about one timeout, took %v", elapsed)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
}

func TestDispatchFailureIsolation(t *testing.T) {
	ok := NewFakeNotifier("ok")
	bad := NewFakeNotifier("bad")
	bad.SendError = errors.New("channel_not_found")

	outcomes := Dispatch(context.Background(), Request{
		Message:           "msg",
		Channels:          []Notifier{ok, bad},
		PerChannelTimeout: time.Second,
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusSent, outcomeFor(t, outcomes, "ok").Status)

	failed := outcomeFor(t, outcomes, "bad")
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "channel_not_found", failed.Error)
}

func TestDispatchPanicCapturedAsFailure(t *testing.T) {
	ok := NewFakeNotifier("ok")
	boom := NewFakeNotifier("boom")
	boom.PanicMsg = "nil dereference in sdk"

	outcomes := Dispatch(context.Background(), Request{
		Message:           "msg",
		Channels:          []Notifier{ok, boom},
		PerChannelTimeout: time.Second,
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusSent, outcomeFor(t, outcomes, "ok").Status)

	failed := outcomeFor(t, outcomes, "boom")
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Contains(t, failed.Error, "panic")
}

func TestDispatchContextAwareTimeoutIsTimedOut(t *testing.T) {
	slow := NewFakeNotifier("slow")
	slow.Delay = time.Second // honors ctx, returns DeadlineExceeded

	outcomes := Dispatch(context.Background(), Request{
		Message:           "msg",
		Channels:          []Notifier{slow},
		PerChannelTimeout: 50 * time.Millisecond,
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusTimedOut, outcomes[0].Status)
}

func TestDispatchOneOutcomePerChannel(t *testing.T) {
	channels := []Notifier{
		NewFakeNotifier("a"),
		func() *FakeNotifier {
			n := NewFakeNotifier("b")
			n.SendError = errors.New("down")
			return n
		}(),
		func() *FakeNotifier {
			n := NewFakeNotifier("c")
			n.Block = true
			return n
		}(),
	}

	outcomes := Dispatch(context.Background(), Request{
		Message:           "msg",
		Channels:          channels,
		PerChannelTimeout: 100 * time.Millisecond,
	})

	require.Len(t, outcomes, 3)
	seen := map[string]bool{}
	for _, o := range outcomes {
		seen[o.Channel] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
}
