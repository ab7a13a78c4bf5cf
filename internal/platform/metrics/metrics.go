// Package metrics exposes prometheus counters for the mock endpoints.
//
// Metrics:
//   - <ns>_<sub>_requests_total: generated responses by provider, model, status
//   - <ns>_<sub>_request_duration_seconds: GetResponse latency by provider
//   - <ns>_<sub>_tokens_total: approximate tokens by provider, model, type
//   - <ns>_<sub>_validation_failures_total: rejected payloads by provider, rule
//
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls metric naming.
type Config struct {
	Namespace string
	Subsystem string
}

type Collector struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	tokensTotal        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
}

// NewCollector creates and registers the mock metrics. If registry is nil a
// fresh registry is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "llm"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "mock"
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of mock completions processed",
			},
			[]string{"provider", "model", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Time spent generating a mock completion",
				// the mock does no inference, so latencies sit well under a millisecond
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"provider"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tokens_total",
				Help:      "Approximate tokens accounted in mock usage records",
			},
			[]string{"provider", "model", "type"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_failures_total",
				Help:      "Field violations found in rejected payloads",
			},
			[]string{"provider", "rule"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.tokensTotal,
		c.validationFailures,
	)

	return c
}

// RecordRequest records the outcome of one GetResponse call.
func (c *Collector) RecordRequest(provider, model, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(provider, model, status).Inc()
	c.requestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordTokens adds a usage record to the token counters.
func (c *Collector) RecordTokens(provider, model string, prompt, completion int) {
	if c == nil {
		return
	}
	c.tokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	c.tokensTotal.WithLabelValues(provider, model, "completion").Add(float64(completion))
}

// RecordValidationFailure counts one violated rule. Field paths are not used
// as labels since they embed message indices.
func (c *Collector) RecordValidationFailure(provider, rule string) {
	if c == nil {
		return
	}
	c.validationFailures.WithLabelValues(provider, rule).Inc()
}

// Handler returns the prometheus exposition handler for this collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
