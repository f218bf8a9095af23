package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pg error codes we care about
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique
// violation error for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation checks if the error is any PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key
// violation, e.g. a consultation referencing a deleted scan.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
