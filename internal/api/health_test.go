// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

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

	"github.com/taibuivan/yamdb/internal/api"
)

type readyBody struct {
	Data struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
		} `json:"checks"`
	} `json:"data"`
}

func probe(t *testing.T, handler http.HandlerFunc) (int, readyBody) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var body readyBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

/*
TestHealthHandlers verifies liveness and the readiness aggregation.
*/
func TestHealthHandlers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{CheckDatabase: healthy}, logger)

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Redis is optional and skipped when not configured
	code, body := probe(t, readiness)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body.Data.Status)
	require.Len(t, body.Data.Checks, 1)
	assert.Equal(t, "postgres", body.Data.Checks[0].Name)

	_, readiness = api.NewHealthHandlers(api.HealthDependencies{CheckDatabase: healthy, CheckCache: broken}, logger)
	code, body = probe(t, readiness)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Data.Status)
	require.Len(t, body.Data.Checks, 2)
	assert.False(t, body.Data.Checks[1].OK)
}
