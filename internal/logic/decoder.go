package logic

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownInterrupt is returned when no configured bit is set in the status
// register. The AS3935 raises this on wake-up and after a noise purge; such
// interrupts carry no event.
var ErrUnknownInterrupt = errors.New("no event bit set in status register")

// Decoder maps raw register bytes to classified events. Pure and stateless.
type Decoder struct {
	Masks    Masks
	Distance DistanceMap
}

// Decode interprets a status/distance register pair read after one interrupt.
// Bits are tested in fixed priority order: lightning, then disturber, then
// noise. Every recognized byte pair yields exactly one event; the only error
// case is a status byte with none of the configured bits set.
func (d Decoder) Decode(status, distance byte, at time.Time) (ClassifiedEvent, error) {
	switch {
	case status&d.Masks.Lightning != 0:
		ev := ClassifiedEvent{Kind: KindLightning, ObservedAt: at}
		ev.DistanceKm, ev.DistanceKnown = d.Distance.Kilometers(distance)
		return ev, nil
	case status&d.Masks.Disturber != 0:
		return ClassifiedEvent{Kind: KindDisturber, ObservedAt: at}, nil
	case status&d.Masks.Noise != 0:
		return ClassifiedEvent{Kind: KindNoise, ObservedAt: at}, nil
	default:
		return ClassifiedEvent{}, fmt.Errorf("decode status 0x%02X: %w", status, ErrUnknownInterrupt)
	}
}
