// Package httptransport assembles the HTTP surface: middleware stack,
// public endpoints, and the bearer-protected API.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stipend/internal/platform/health"
	"stipend/internal/platform/metrics"
	"stipend/internal/platform/middleware"
)

// Registrar mounts a handler's routes on a router group.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. Handlers register their own
// routes; the router only decides which group they land in.
type Deps struct {
	Logger   *slog.Logger
	Health   *health.Handler
	Metrics  *metrics.Metrics
	Verifier middleware.TokenVerifier

	// Public mounts outside the auth boundary (login).
	Public []Registrar
	// Protected mounts behind bearer authentication.
	Protected []Registrar
}

// NewRouter wires the full middleware stack and all endpoint groups.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(endpointLatency(d.Metrics))
	}

	d.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, reg := range d.Public {
		reg.Register(r)
	}

	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAuth(d.Verifier, d.Logger))
		for _, reg := range d.Protected {
			reg.Register(g)
		}
	})

	return r
}

// endpointLatency records per-route latency using the chi route pattern so
// /payroll/12 and /payroll/13 share one series.
func endpointLatency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.EndpointLatency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
		})
	}
}
