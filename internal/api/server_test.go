// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/api"
	"github.com/taibuivan/yamdb/internal/catalog/reference"
	"github.com/taibuivan/yamdb/internal/catalog/title"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// newRoutingServer builds the full router. Only routing is exercised, so the
// domain handlers carry no services.
func newRoutingServer(t *testing.T) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
	}, logger)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "test"}, logger, nil, nil, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(nil),
		Users:      account.NewHandler(nil),
		Genres:     reference.NewHandler(nil),
		Categories: reference.NewHandler(nil),
		Titles:     title.NewHandler(nil),
		Reviews:    review.NewHandler(nil),
		Comments:   comment.NewHandler(nil),
	})
	return server.Handler()
}

/*
TestServer_SafeMethods verifies that HEAD falls back to GET handlers and that
OPTIONS lists the methods of nested routes without a token.
*/
func TestServer_SafeMethods(t *testing.T) {
	handler := newRoutingServer(t)

	serve := func(method, path string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
		return recorder
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodHead, "/health").Code)

	tests := []struct {
		path  string
		allow string
	}{
		{"/api/v1/titles", "GET, HEAD, POST, OPTIONS"},
		{"/api/v1/titles/1", "GET, HEAD, PATCH, DELETE, OPTIONS"},
		{"/api/v1/genres/drama", "GET, HEAD, DELETE, OPTIONS"},
		{"/api/v1/titles/1/reviews", "GET, HEAD, POST, OPTIONS"},
		{"/api/v1/titles/1/reviews/2/comments/3", "GET, HEAD, PATCH, DELETE, OPTIONS"},
		{"/api/v1/auth/signup", "POST, OPTIONS"},
		{"/api/v1/users/bob", "GET, HEAD, PATCH, DELETE, OPTIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			recorder := serve(http.MethodOptions, tt.path)
			assert.Equal(t, http.StatusNoContent, recorder.Code)
			assert.Equal(t, tt.allow, recorder.Header().Get("Allow"))
		})
	}

	assert.Equal(t, http.StatusNotFound, serve(http.MethodOptions, "/api/v1/nowhere").Code)
}
