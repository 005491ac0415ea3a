// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics exposes the Prometheus collectors of the API server.
//
// Recording methods are nil-safe so services can be built without metrics in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by [Metrics.LoginAttempt].
const (
	OutcomeSuccess            = "success"
	OutcomeNotFound           = "not_found"
	OutcomeBanned             = "banned"
	OutcomeUnverified         = "unverified"
	OutcomeInvalidCredentials = "invalid_credentials"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Access-control metrics
	LoginAttemptsTotal     *prometheus.CounterVec
	SessionsTotal          *prometheus.CounterVec
	ModerationActionsTotal *prometheus.CounterVec
}

// New creates and registers all collectors on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quillpost_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quillpost_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quillpost_login_attempts_total",
				Help: "Login attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		SessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quillpost_sessions_total",
				Help: "Session lifecycle events",
			},
			[]string{"event"},
		),
		ModerationActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quillpost_moderation_actions_total",
				Help: "Admin ban and unban actions by resource",
			},
			[]string{"resource", "banned"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginAttemptsTotal,
		m.SessionsTotal,
		m.ModerationActionsTotal,
	)

	return m
}

// # Recording

// LoginAttempt records one credential or social login outcome.
func (m *Metrics) LoginAttempt(provider, outcome string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

// SessionEvent records a session lifecycle event (created, destroyed, revoked).
func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.SessionsTotal.WithLabelValues(event).Inc()
}

// Moderation records an admin ban state change.
func (m *Metrics) Moderation(resource string, banned bool) {
	if m == nil {
		return
	}
	m.ModerationActionsTotal.WithLabelValues(resource, strconv.FormatBool(banned)).Inc()
}

// # HTTP

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware instruments HTTP requests. The route label is the chi pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if routeContext := chi.RouteContext(r.Context()); routeContext != nil && routeContext.RoutePattern() != "" {
			route = routeContext.RoutePattern()
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
