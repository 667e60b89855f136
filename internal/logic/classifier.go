package logic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Policy decides which classified events are worth notifying about.
type Policy struct {
	// AlertThresholdKm is the inclusive distance cutoff for lightning alerts.
	AlertThresholdKm int
	// NotifyUnknownDistance controls lightning events whose distance register
	// read the out-of-range code. Default off: classified and logged, never
	// dispatched.
	NotifyUnknownDistance bool
}

// Templates holds the per-kind notification message templates.
// Placeholders use {name} syntax; {distance} is substituted with the distance
// in kilometers and is required in the Lightning template.
type Templates struct {
	Lightning        string
	LightningUnknown string
	Noise            string
	Disturber        string
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Validate checks every template for unknown placeholders and the Lightning
// template for the required {distance}. Called at startup; a template problem
// must never surface at dispatch time.
func (t Templates) Validate() error {
	checks := []struct {
		name, text string
		allowed    map[string]bool
		required   []string
	}{
		{"lightning", t.Lightning, map[string]bool{"distance": true}, []string{"distance"}},
		{"lightning_unknown", t.LightningUnknown, nil, nil},
		{"noise", t.Noise, nil, nil},
		{"disturber", t.Disturber, nil, nil},
	}

	for _, c := range checks {
		if c.text == "" {
			return fmt.Errorf("template %q is empty", c.name)
		}
		for _, m := range placeholderRe.FindAllStringSubmatch(c.text, -1) {
			if !c.allowed[m[1]] {
				return fmt.Errorf("template %q: unknown placeholder {%s}", c.name, m[1])
			}
		}
		for _, req := range c.required {
			if !strings.Contains(c.text, "{"+req+"}") {
				return fmt.Errorf("template %q: missing required placeholder {%s}", c.name, req)
			}
		}
	}
	return nil
}

// Render produces the notification text for an event. Templates must already
// have passed Validate.
func (t Templates) Render(ev ClassifiedEvent) string {
	switch ev.Kind {
	case KindLightning:
		if !ev.DistanceKnown {
			return t.LightningUnknown
		}
		return strings.ReplaceAll(t.Lightning, "{distance}", strconv.Itoa(ev.DistanceKm))
	case KindDisturber:
		return t.Disturber
	default:
		return t.Noise
	}
}

// Classification is the full result of classifying one accepted interrupt.
type Classification struct {
	Event ClassifiedEvent
	// Alert is true when the event should be dispatched to the notification
	// channels. Message is set only when Alert is true.
	Alert   bool
	Message string
	// SuppressReason explains a non-alerting classification, for logging.
	SuppressReason string
}

// Classifier composes decoding with the alert-worthiness policy and message
// rendering.
type Classifier struct {
	Decoder   Decoder
	Policy    Policy
	Templates Templates
}

// Classify decodes an accepted raw interrupt and decides whether it warrants
// a notification. Noise and disturber events are always alert-worthy; they
// are informational and not threshold-filtered. Lightning alerts only when
// the distance is known and within the (inclusive) threshold, unless the
// unknown-distance override is enabled.
func (c Classifier) Classify(raw RawInterrupt) (Classification, error) {
	ev, err := c.Decoder.Decode(raw.Status, raw.Distance, raw.ObservedAt)
	if err != nil {
		return Classification{}, err
	}

	res := Classification{Event: ev}

	if ev.Kind != KindLightning {
		res.Alert = true
		res.Message = c.Templates.Render(ev)
		return res, nil
	}

	if !ev.DistanceKnown {
		if c.Policy.NotifyUnknownDistance {
			res.Alert = true
			res.Message = c.Templates.Render(ev)
		} else {
			res.SuppressReason = "distance unknown"
		}
		return res, nil
	}

	if ev.DistanceKm > c.Policy.AlertThresholdKm {
		res.SuppressReason = fmt.Sprintf("distance %d km beyond threshold %d km",
			ev.DistanceKm, c.Policy.AlertThresholdKm)
		return res, nil
	}

	res.Alert = true
	res.Message = c.Templates.Render(ev)
	return res, nil
}
