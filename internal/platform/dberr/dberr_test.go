// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/dberr"
)

/*
TestWrap verifies the classification of driver errors into application errors.
*/
func TestWrap(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_account_email"}

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound, 404},
		{"wrapped_no_rows", fmt.Errorf("find_failed: %w", pgx.ErrNoRows), apperr.CodeNotFound, 404},
		{"unique_violation", unique, apperr.CodeConflict, 400},
		{"other", errors.New("connection reset"), apperr.CodeInternal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "missing", "duplicate"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.status, ae.HTTPStatus)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "missing", "duplicate"))
}

/*
TestIsUniqueViolation checks constraint name matching.
*/
func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert_failed: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_blog_name"})

	assert.True(t, dberr.IsUniqueViolation(err, ""))
	assert.True(t, dberr.IsUniqueViolation(err, "uq_blog_name"))
	assert.False(t, dberr.IsUniqueViolation(err, "uq_account_email"))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ""))
	assert.False(t, dberr.IsUniqueViolation(errors.New("boom"), ""))
}
