package logic

import "time"

// Gate suppresses interrupt edges that arrive within the quiet window of the
// last accepted edge, collapsing electrical bounce into one logical event.
// Owned by the single detection loop goroutine; not safe for concurrent use.
type Gate struct {
	quietWindow  time.Duration
	lastAccepted time.Time
	seen         bool
}

// NewGate creates a debounce gate with the given quiet window.
func NewGate(quietWindow time.Duration) *Gate {
	return &Gate{quietWindow: quietWindow}
}

// Accept reports whether an interrupt observed at t should be processed.
// The first interrupt after startup is always accepted. lastAccepted advances
// only on acceptance, so a sustained burst yields one event per quiet window
// instead of being suppressed indefinitely.
func (g *Gate) Accept(t time.Time) bool {
	if !g.seen {
		g.seen = true
		g.lastAccepted = t
		return true
	}
	if t.Sub(g.lastAccepted) >= g.quietWindow {
		g.lastAccepted = t
		return true
	}
	return false
}

// QuietWindow returns the configured window.
func (g *Gate) QuietWindow() time.Duration {
	return g.quietWindow
}
