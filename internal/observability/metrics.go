// Package observability holds the Prometheus instrumentation for the daemon.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters, gauges, and histograms for the detection loop.
type Metrics struct {
	InterruptsTotal prometheus.Counter
	EventsTotal     *prometheus.CounterVec // labels: kind={NOISE,DISTURBER,LIGHTNING}
	SuppressedTotal *prometheus.CounterVec // labels: reason={debounce,decode_error,threshold,unknown_distance}

	DispatchOutcomesTotal   *prometheus.CounterVec // labels: channel, status={SENT,FAILED,TIMED_OUT}
	DispatchDurationSeconds prometheus.Histogram

	LastStrikeDistanceKm prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		InterruptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strikewatch",
			Name:      "interrupts_total",
			Help:      "Total interrupt edges received from the sensor line.",
		}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strikewatch",
			Name:      "events_total",
			Help:      "Classified events by kind.",
		}, []string{"kind"}),
		SuppressedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strikewatch",
			Name:      "suppressed_total",
			Help:      "Interrupts or events dropped before dispatch, by reason.",
		}, []string{"reason"}),
		DispatchOutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strikewatch",
			Name:      "dispatch_outcomes_total",
			Help:      "Per-channel notification delivery outcomes.",
		}, []string{"channel", "status"}),
		DispatchDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "strikewatch",
			Name:      "dispatch_duration_seconds",
			Help:      "Wall time of one alert fan-out across all channels.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		LastStrikeDistanceKm: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strikewatch",
			Name:      "last_strike_distance_km",
			Help:      "Distance of the most recent lightning event with a known distance.",
		}),
	}
}

// NewMetrics creates the metrics and registers them with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.InterruptsTotal,
		m.EventsTotal,
		m.SuppressedTotal,
		m.DispatchOutcomesTotal,
		m.DispatchDurationSeconds,
		m.LastStrikeDistanceKm,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
