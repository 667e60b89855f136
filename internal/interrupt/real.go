//go:build linux

package interrupt

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealWatcher watches the interrupt line on actual hardware using the Linux
// GPIO character device.
type RealWatcher struct {
	chip   *gpiocdev.Chip
	line   *gpiocdev.Line
	events chan time.Time
}

// NewRealWatcher requests the pin as an input with pull-down (the AS3935 IRQ
// line idles low and pulses high) and subscribes to rising edges.
func NewRealWatcher(chipName string, pin int) (*RealWatcher, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	w := &RealWatcher{
		chip: chip,
		// Small buffer absorbs an edge burst without blocking the kernel
		// event goroutine; overflow is dropped.
		events: make(chan time.Time, 16),
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(w.handleEdge),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request interrupt pin %d: %w", pin, err)
	}
	w.line = line

	return w, nil
}

func (w *RealWatcher) handleEdge(gpiocdev.LineEvent) {
	select {
	case w.events <- time.Now():
	default:
		// Consumer is behind; drop the edge.
	}
}

// Events returns the edge timestamp channel.
func (w *RealWatcher) Events() <-chan time.Time {
	return w.events
}

// Close releases GPIO resources. Reconfigures the pin to input with
// pull-down (matching Pi boot defaults) before closing so external hardware
// is not left with the line in an unexpected state.
func (w *RealWatcher) Close() error {
	var errs []error

	if w.line != nil {
		if err := w.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure interrupt pin: %w", err))
		}
		if err := w.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close interrupt pin: %w", err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
