package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Logins       prometheus.Counter
	AuthFailures prometheus.Counter

	RunsSubmitted prometheus.Counter
	RunsCompleted prometheus.Counter
	RunsFailed    prometheus.Counter

	StubsRendered     prometheus.Counter
	StubRenderLatency prometheus.Histogram
	RunDuration       prometheus.Histogram

	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stipend_logins_total",
			Help: "Total number of successful logins",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stipend_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		RunsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stipend_payroll_runs_submitted_total",
			Help: "Total number of payroll runs submitted",
		}),
		RunsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stipend_payroll_runs_completed_total",
			Help: "Total number of payroll runs that reached completed",
		}),
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stipend_payroll_runs_failed_total",
			Help: "Total number of payroll runs that reached failed",
		}),
		StubsRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stipend_pay_stubs_rendered_total",
			Help: "Total number of pay stub PDFs rendered",
		}),
		StubRenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stipend_pay_stub_render_seconds",
			Help:    "Latency of rendering one pay stub PDF",
			Buckets: prometheus.DefBuckets,
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stipend_payroll_run_duration_seconds",
			Help:    "Duration of payroll run processing from pickup to terminal state",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stipend_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
