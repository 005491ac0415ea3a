// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
)

/*
TestAppError_StatusMapping pins the public status contract for every constructor.
*/
func TestAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("x"), http.StatusNotFound, apperr.CodeNotFound},
		{"unauthorized", apperr.Unauthorized("x"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"forbidden_is_400", apperr.Forbidden("x"), http.StatusBadRequest, apperr.CodeForbidden},
		{"conflict_is_400", apperr.Conflict("x"), http.StatusBadRequest, apperr.CodeConflict},
		{"validation", apperr.ValidationError("x"), http.StatusBadRequest, apperr.CodeValidation},
		{"rate_limited", apperr.RateLimited(3), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"internal", apperr.Internal(errors.New("db down")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAppError_InternalHidesCause verifies the cause never leaks into the message.
*/
func TestAppError_InternalHidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := apperr.Internal(cause)

	assert.Equal(t, apperr.MsgInternal, err.Error())
	assert.ErrorIs(t, err, cause)
}

/*
TestAppError_As traverses wrapped chains.
*/
func TestAppError_As(t *testing.T) {
	wrapped := fmt.Errorf("service_failed: %w", apperr.NotFoundf("Blog with id: %s not found!", "b1"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "Blog with id: b1 not found!", ae.Message)
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.IsConflict(wrapped))
	assert.Nil(t, apperr.As(errors.New("plain")))
}
