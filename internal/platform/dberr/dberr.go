// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint failure.
// When constraint is non-empty it must also match the violated constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) || pgError.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgError.ConstraintName == constraint
}

// IsNoRows reports whether err means the queried row does not exist.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// notFound and conflict are the client messages for the two classified cases.
func Wrap(err error, notFound, conflict string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if IsNoRows(err) {
		return apperr.NotFound(notFound)
	}

	// 2. Unique constraint mapping
	if IsUniqueViolation(err, "") {
		return apperr.Conflict(conflict)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
