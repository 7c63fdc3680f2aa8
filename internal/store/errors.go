// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the persistence layer of the blogging platform:
// post and category stores, the many-to-many link management between them,
// and the filtered/paginated post query engine. All mutations that touch
// more than one row run inside a single transaction so a failure is never
// observable as a partially-applied write.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by store operations. Callers match them with
// errors.Is to map persistence failures onto API status codes.
var (
	// ErrNotFound is returned when an id or slug does not resolve to a row.
	ErrNotFound = errors.New("not found")

	// ErrSlugConflict is returned when a derived slug collides with an
	// existing row of the same entity type.
	ErrSlugConflict = errors.New("slug already exists")

	// ErrCategoryMissing is returned when a post links to a category id
	// that does not exist. The surrounding create/update is rolled back
	// as one unit.
	ErrCategoryMissing = errors.New("referenced category does not exist")
)

// ValidationError reports a rejected input field. It is returned before
// any database write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PostgreSQL error codes relevant to the store layer.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isUniqueViolation reports whether err is a unique-constraint violation,
// which in this schema can only be a slug collision.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isForeignKeyViolation reports whether err is a foreign-key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
