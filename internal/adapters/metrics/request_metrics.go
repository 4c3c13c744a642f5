package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Request kinds used as the "kind" label
const (
	RequestKindCommand = "command"
	RequestKindQuery   = "query"
)

// RequestMetricsCollector tracks requests sent through the mediator. A run
// is one long command, so in-flight requests are exported as a gauge.
type RequestMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewRequestMetricsCollector creates the mediator request metrics
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Mediator request duration; runs land in the upper buckets",
				Buckets:   []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 60.0, 300.0, 900.0},
			},
			[]string{"request", "kind", "status"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Mediator requests by name, kind and status",
			},
			[]string{"request", "kind", "status"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_in_flight",
				Help:      "Mediator requests currently executing, such as a running simulation",
			},
			[]string{"request", "kind"},
		),
	}
}

// Register adds the request metrics to the global registry
func (c *RequestMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range []prometheus.Collector{c.duration, c.total, c.inFlight} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RequestStarted marks a request as executing
func (c *RequestMetricsCollector) RequestStarted(request, kind string) {
	c.inFlight.WithLabelValues(request, kind).Inc()
}

// RequestFinished records the outcome of a request started with RequestStarted
func (c *RequestMetricsCollector) RequestFinished(request, kind string, seconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.inFlight.WithLabelValues(request, kind).Dec()
	c.duration.WithLabelValues(request, kind, status).Observe(seconds)
	c.total.WithLabelValues(request, kind, status).Inc()
}
