// Package logic contains pure business logic for lightning event classification.
// This package has NO external dependencies (no I2C, GPIO, network, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// EventKind is the semantic kind of a sensor interrupt.
type EventKind string

const (
	KindNoise     EventKind = "NOISE"
	KindDisturber EventKind = "DISTURBER"
	KindLightning EventKind = "LIGHTNING"
)

// RawInterrupt is one untouched reading taken after an interrupt edge.
type RawInterrupt struct {
	// Status is the raw interrupt register value.
	Status byte
	// Distance is the raw distance register value. Only meaningful when the
	// lightning bit is set in Status.
	Distance byte
	// ObservedAt is the edge timestamp supplied by the interrupt watcher.
	ObservedAt time.Time
}

// ClassifiedEvent is the decoded, immutable view of one accepted interrupt.
type ClassifiedEvent struct {
	Kind       EventKind
	ObservedAt time.Time

	// DistanceKm is the estimated distance to the storm front in kilometers.
	// Valid only when Kind is KindLightning and DistanceKnown is true.
	DistanceKm int
	// DistanceKnown is false when the sensor reported the out-of-range code.
	// Never true for noise or disturber events.
	DistanceKnown bool
}

// Masks holds the interrupt-status bit masks, tested in priority order
// lightning > disturber > noise so an overlapping read can never hide a strike
// behind a noise or disturber bit.
type Masks struct {
	Noise     byte
	Disturber byte
	Lightning byte
}

// DistanceMap converts the raw distance register code to kilometers.
// The AS3935 reports the estimate in the low six bits, with a dedicated code
// meaning "storm out of range".
type DistanceMap struct {
	// Mask selects the bits of the register that carry the estimate.
	Mask byte
	// OutOfRange is the masked code meaning the distance is unknown.
	OutOfRange byte
	// Lookup optionally maps raw codes to kilometers. When empty the masked
	// code is taken as kilometers directly (the sensor's native encoding).
	Lookup map[byte]int
}

// Kilometers converts a raw distance register value.
// The second return is false when the distance is unknown (out-of-range code,
// or a code absent from a configured lookup table).
func (m DistanceMap) Kilometers(raw byte) (int, bool) {
	code := raw & m.Mask
	if code == m.OutOfRange {
		return 0, false
	}
	if len(m.Lookup) > 0 {
		km, ok := m.Lookup[code]
		return km, ok
	}
	return int(code), true
}
