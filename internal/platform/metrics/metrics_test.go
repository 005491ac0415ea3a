// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/platform/metrics"
)

/*
TestMetrics_Recording verifies the domain counters.
*/
func TestMetrics_Recording(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.LoginAttempt("local", metrics.OutcomeBanned)
	m.LoginAttempt("local", metrics.OutcomeBanned)
	m.SessionEvent("created")
	m.Moderation("blog", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues("local", metrics.OutcomeBanned)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModerationActionsTotal.WithLabelValues("blog", "true")))
}

/*
TestMetrics_NilSafe ensures a nil collector set can be used by services.
*/
func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.LoginAttempt("local", metrics.OutcomeSuccess)
		m.SessionEvent("destroyed")
		m.Moderation("post", false)
	})
}

/*
TestMetrics_Middleware checks route-pattern labelling and the exposition endpoint.
*/
func TestMetrics_Middleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/blog/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", m.Handler())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/blog/42", nil))
	assert.Equal(t, http.StatusTeapot, recorder.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/blog/{id}", "418")))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "quillpost_http_requests_total")
}
