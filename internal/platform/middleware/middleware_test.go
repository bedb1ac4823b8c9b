// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type stubVerifier struct {
	claims map[string]*sec.AuthClaims
}

func (s stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := s.claims[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

var verifier = stubVerifier{claims: map[string]*sec.AuthClaims{
	"user-token":  {UserID: 1, Username: "bob", Role: sec.RoleUser},
	"admin-token": {UserID: 2, Username: "root", Role: sec.RoleUser, Superuser: true},
}}

type stubResolver struct {
	states map[int64]sec.RoleState
	err    error
}

func (s *stubResolver) ResolveRole(_ context.Context, userID int64) (sec.RoleState, error) {
	if s.err != nil {
		return sec.RoleState{}, s.err
	}
	if state, ok := s.states[userID]; ok {
		return state, nil
	}
	return sec.RoleState{}, apperr.NotFound("User")
}

// newResolver mirrors what the tokens in verifier were minted with.
func newResolver() *stubResolver {
	return &stubResolver{states: map[int64]sec.RoleState{
		1: {Role: sec.RoleUser},
		2: {Role: sec.RoleUser, Superuser: true},
	}}
}

func okHandler(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func serve(handler http.Handler, method, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, "/api/v1/genres", nil)
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

/*
TestAuthenticate verifies anonymous pass-through, valid tokens and rejected headers.
*/
func TestAuthenticate(t *testing.T) {
	var seen *sec.AuthClaims
	resolver := newResolver()
	handler := middleware.Authenticate(verifier, resolver)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous", func(t *testing.T) {
		seen = nil
		recorder := serve(handler, http.MethodGet, "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("valid token", func(t *testing.T) {
		recorder := serve(handler, http.MethodGet, "user-token")
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "bob", seen.Username)
	})

	t.Run("invalid token", func(t *testing.T) {
		recorder := serve(handler, http.MethodGet, "forged")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, apperr.CodeUnauthorized, decodeError(t, recorder).Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderAuthorization, "Basic Ym9iOnB3")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("resolver failure", func(t *testing.T) {
		resolver.err = errors.New("connection refused")
		defer func() { resolver.err = nil }()

		recorder := serve(handler, http.MethodGet, "user-token")
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		delete(resolver.states, 1)
		recorder := serve(handler, http.MethodGet, "user-token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, apperr.CodeUnauthorized, decodeError(t, recorder).Code)
	})
}

/*
TestAuthenticate_StoredRole verifies that role changes apply to a token that
was issued before them.
*/
func TestAuthenticate_StoredRole(t *testing.T) {
	resolver := newResolver()
	handler := middleware.Authenticate(verifier, resolver)(
		middleware.Require(access.IsAdminOrReadOnly)(http.HandlerFunc(okHandler)),
	)

	// Minted as a plain user
	assert.Equal(t, http.StatusForbidden, serve(handler, http.MethodPost, "user-token").Code)

	resolver.states[1] = sec.RoleState{Role: sec.RoleAdmin}
	assert.Equal(t, http.StatusOK, serve(handler, http.MethodPost, "user-token").Code)

	// Minted as a superuser, then demoted
	assert.Equal(t, http.StatusOK, serve(handler, http.MethodDelete, "admin-token").Code)
	resolver.states[2] = sec.RoleState{Role: sec.RoleUser}
	assert.Equal(t, http.StatusForbidden, serve(handler, http.MethodDelete, "admin-token").Code)
}

/*
TestRequire verifies 401 for anonymous writes, 403 for authenticated non-admins.
*/
func TestRequire(t *testing.T) {
	handler := middleware.Authenticate(verifier, newResolver())(
		middleware.Require(access.IsAdminOrReadOnly)(http.HandlerFunc(okHandler)),
	)

	tests := []struct {
		name   string
		method string
		token  string
		want   int
	}{
		{"anonymous read", http.MethodGet, "", http.StatusOK},
		{"anonymous head", http.MethodHead, "", http.StatusOK},
		{"anonymous write", http.MethodPost, "", http.StatusUnauthorized},
		{"user write", http.MethodPost, "user-token", http.StatusForbidden},
		{"superuser write", http.MethodDelete, "admin-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(handler, tt.method, tt.token).Code)
		})
	}
}

/*
TestRequestID verifies header echo and generation.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", recorder.Header().Get(constants.HeaderXRequestID))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "abc", seen)
}

/*
TestRateLimit verifies that the bucket rejects once the burst is spent.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(http.HandlerFunc(okHandler))

	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "").Code)

	recorder := serve(handler, http.MethodGet, "")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "1", recorder.Header().Get(constants.HeaderRetryAfter))
}

/*
TestPanicRecovery verifies that a panicking handler yields a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := serve(handler, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, apperr.CodeInternal, decodeError(t, recorder).Code)
}

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool      { return c.dev }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

/*
TestCORS verifies the origin allow-list outside development.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{origins: []string{"https://yamdb.app"}})(http.HandlerFunc(okHandler))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://yamdb.app")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://yamdb.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://yamdb.app")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestRealIP verifies proxy header precedence.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}
