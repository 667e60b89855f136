// Package interrupt watches the sensor interrupt line and delivers one
// timestamp per rising edge. The real implementation uses the Linux GPIO
// character device; the fake allows testing without hardware.
package interrupt

import "time"

// Watcher yields interrupt edge timestamps.
type Watcher interface {
	// Events returns the channel of edge timestamps. The channel is never
	// closed while the watcher is open; edges arriving faster than the
	// consumer drains are dropped (the debounce gate would reject them
	// anyway).
	Events() <-chan time.Time

	// Close releases the GPIO line.
	Close() error
}

// DefaultPin is the BCM pin the sensor IRQ line is usually wired to.
const DefaultPin = 4

// DefaultChip is the GPIO chip device name on a Raspberry Pi.
const DefaultChip = "gpiochip0"
