// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// Wrap classifies a database error into an [apperr.AppError].
//
// resource names the entity for NOT_FOUND messages ("Title", "Review").
// Unique violations become CONFLICT, foreign key and check violations become
// VALIDATION_ERROR, everything else is INTERNAL_ERROR with the cause attached.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	if pgErr := PgError(err); pgErr != nil {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced object does not exist").WithCause(err)
		case pgerrcode.CheckViolation:
			return apperr.ValidationError(resource + " violates a value constraint").WithCause(err)
		}
	}

	return apperr.Internal(err)
}

// PgError extracts the PostgreSQL error from err's chain, or nil.
func PgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique violation on the named
// constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	pgErr := PgError(err)
	if pgErr == nil || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
