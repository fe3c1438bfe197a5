// Package pgerr classifies PostgreSQL driver errors into errx kinds.
package pgerr

import (
	"errors"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/blogapi/internal/errx"
)

const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
	StringTooLong       = "22001"
)

// Map wraps err under op with a Kind derived from the driver error.
// A unique violation is a Conflict only when its constraint is one of
// uniques; an unexpected one is treated as a storage failure.
func Map(op string, err error, uniques ...string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errx.E(op, errx.NotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errx.E(op, errx.Unavailable, err)
	}

	switch pgErr.Code {
	case UniqueViolation:
		if slices.Contains(uniques, pgErr.ConstraintName) {
			return errx.E(op, errx.Conflict, err)
		}
	case ForeignKeyViolation:
		return errx.E(op, errx.NotFound, err)
	case CheckViolation, StringTooLong:
		return errx.E(op, errx.Invalid, err)
	}
	return errx.E(op, errx.Unavailable, err)
}

// Constraint returns the constraint name of a PostgreSQL error, if any.
func Constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
