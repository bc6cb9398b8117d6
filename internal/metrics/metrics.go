// Package metrics counts conversions on a private Prometheus registry.
//
// A nil *Collector is valid and records nothing, so the conversion core can
// take one unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for hippo_conversions_total.
const (
	ResultOK = "ok"
)

// Collector holds the conversion metrics.
type Collector struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
	outputBytes prometheus.Counter
}

// New registers the conversion metrics on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hippo_conversions_total",
			Help: "Conversions attempted, by result (ok or the failure kind).",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hippo_conversion_duration_seconds",
			Help:    "Wall time of one decode and encode.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hippo_output_bytes_total",
			Help: "Bytes written to .hippo files.",
		}),
	}
	c.registry.MustRegister(c.conversions, c.duration, c.outputBytes)
	return c
}

// Observe records one conversion. result is ResultOK or a failure kind name.
func (c *Collector) Observe(result string, d time.Duration, outputSize int64) {
	if c == nil {
		return
	}
	c.conversions.WithLabelValues(result).Inc()
	c.duration.Observe(d.Seconds())
	if outputSize > 0 {
		c.outputBytes.Add(float64(outputSize))
	}
}

// Registry exposes the underlying registry, e.g. for tests or an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.registry)
}
