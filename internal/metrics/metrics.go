// Package metrics records publish outcomes on a private registry that can
// be exported as a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"

	"depman/internal/ports"
)

type PublishMetrics struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewPublishMetrics() *PublishMetrics {
	m := &PublishMetrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "depman",
				Subsystem: "publish",
				Name:      "attempts_total",
				Help:      "Publish attempts per resolver.",
			},
			[]string{"resolver"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "depman",
				Subsystem: "publish",
				Name:      "failures_total",
				Help:      "Failed publish attempts per resolver.",
			},
			[]string{"resolver"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "depman",
				Subsystem: "publish",
				Name:      "duration_seconds",
				Help:      "Time spent publishing to a single resolver.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.attempts, m.failures, m.duration)
	return m
}

func (m *PublishMetrics) ObservePublish(resolver string, duration time.Duration, err error) {
	m.attempts.WithLabelValues(resolver).Inc()
	if err != nil {
		m.failures.WithLabelValues(resolver).Inc()
	}
	m.duration.Observe(duration.Seconds())
}

func (m *PublishMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format.
// The file is replaced atomically.
func (m *PublishMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics textfile").
			WithCause(err)
	}
	return nil
}

var _ ports.PublishRecorderPort = (*PublishMetrics)(nil)
