// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readinessBody struct {
	StatusCode int `json:"statusCode"`
	Data       struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
			IsOK bool   `json:"ok"`
		} `json:"checks"`
	} `json:"data"`
}

func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthy := func(context.Context) error { return nil }

	t.Run("ready", func(t *testing.T) {
		_, readiness := NewHealthHandlers(HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}, logger)

		recorder := httptest.NewRecorder()
		readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

		var body readinessBody
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "ready", body.Data.Status)
		assert.Len(t, body.Data.Checks, 2)
	})

	t.Run("degraded", func(t *testing.T) {
		_, readiness := NewHealthHandlers(HealthDependencies{
			CheckDatabase: healthy,
			CheckCache:    func(context.Context) error { return errors.New("connection refused") },
		}, logger)

		recorder := httptest.NewRecorder()
		readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

		var body readinessBody
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Equal(t, http.StatusServiceUnavailable, body.StatusCode)
		assert.Equal(t, "degraded", body.Data.Status)
		assert.False(t, body.Data.Checks[1].IsOK)
	})
}

func TestLiveness(t *testing.T) {
	liveness, _ := NewHealthHandlers(HealthDependencies{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
