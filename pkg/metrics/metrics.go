// Package metrics holds the shared Prometheus registry wiring for the site
// services: plain client_golang collectors for counters and an OpenTelemetry
// meter provider exporting through the same registry.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Namespace prefixes every collector registered by this module.
const Namespace = "sitekit"

// Collectors groups the counters incremented by request handlers and the
// layout loader.
type Collectors struct {
	// ContactOutcomes counts contact submissions by outcome label
	// (sent, honeypot, invalid, unsupported, misconfigured, upstream, unexpected).
	ContactOutcomes *prometheus.CounterVec
	// PartialLoads counts fragment injections by fragment name and result.
	PartialLoads *prometheus.CounterVec
}

// NewCollectors creates the collectors and registers them on reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		ContactOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		PartialLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "layout",
			Name:      "partial_loads_total",
			Help:      "Layout fragment injections by fragment and result.",
		}, []string{"fragment", "result"}),
	}

	for _, col := range []prometheus.Collector{c.ContactOutcomes, c.PartialLoads} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("could not register collector: %w", err)
		}
	}

	return c, nil
}

// NewMeterProvider returns an OpenTelemetry meter provider whose instruments
// are exported on reg.
func NewMeterProvider(reg prometheus.Registerer) (metric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}
