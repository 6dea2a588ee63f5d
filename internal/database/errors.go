package database

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restaurant-system/internal/apperror"
)

// PostgreSQL SQLSTATE codes the services care about.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	numericOutOfRange   = "22003"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// MapError classifies a driver error. notFound is used for pgx.ErrNoRows,
// conflict for unique and foreign key violations; numeric overflow is a bad
// request. Anything else becomes Internal with op as context.
func MapError(err error, op, notFound, conflict string) error {
	if err == nil {
		return nil
	}
	if apperror.KindOf(err) != apperror.KindInternal {
		return err
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperror.Wrap(apperror.KindNotFound, err, "%s", notFound)
	case IsUniqueViolation(err), IsForeignKeyViolation(err):
		return apperror.Wrap(apperror.KindConflict, err, "%s", conflict)
	case hasCode(err, numericOutOfRange):
		return apperror.Wrap(apperror.KindBadRequest, err, "numeric value out of range")
	}
	return apperror.Wrap(apperror.KindInternal, err, "%s", op)
}
