// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

/*
TestConstructors verifies that every constructor maps to its HTTP status.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not found", apperr.NotFound("Title"), apperr.CodeNotFound, http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("x"), apperr.CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("x"), apperr.CodeForbidden, http.StatusForbidden},
		{"conflict", apperr.Conflict("x"), apperr.CodeConflict, http.StatusConflict},
		{"validation", apperr.ValidationError("x"), apperr.CodeValidation, http.StatusBadRequest},
		{"rate limited", apperr.RateLimited(5), apperr.CodeRateLimited, http.StatusTooManyRequests},
		{"internal", apperr.Internal(errors.New("boom")), apperr.CodeInternal, http.StatusInternalServerError},
		{"unavailable", apperr.ServiceUnavailable("x"), apperr.CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}

	assert.Equal(t, "Title not found", apperr.NotFound("Title").Message)
}

/*
TestAs_WrappedChain verifies extraction through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	base := apperr.Conflict("duplicate review")
	wrapped := fmt.Errorf("review_service_create_failed: %w", base)

	got := apperr.As(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, apperr.CodeConflict, got.Code)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeConflict))
	assert.False(t, apperr.HasCode(errors.New("plain"), apperr.CodeConflict))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestWithCause verifies that the cause is attached to a copy only.
*/
func TestWithCause(t *testing.T) {
	base := apperr.Conflict("duplicate review")
	cause := errors.New("23505")

	withCause := base.WithCause(cause)

	assert.Nil(t, base.Cause)
	assert.ErrorIs(t, withCause, cause)
}
