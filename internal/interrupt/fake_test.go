package interrupt

import (
	"testing"
	"time"
)

func TestFakeWatcherDeliversEdges(t *testing.T) {
	w := NewFakeWatcher()

	first := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	second := first.Add(700 * time.Millisecond)
	w.Fire(first)
	w.Fire(second)

	select {
	case got := <-w.Events():
		if !got.Equal(first) {
			t.Errorf("expected %v, got %v", first, got)
		}
	default:
		t.Fatal("no edge delivered")
	}

	select {
	case got := <-w.Events():
		if !got.Equal(second) {
			t.Errorf("expected %v, got %v", second, got)
		}
	default:
		t.Fatal("second edge not delivered")
	}
}

func TestFakeWatcherClose(t *testing.T) {
	w := NewFakeWatcher()
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Closed {
		t.Error("Close should mark the watcher closed")
	}
}
