package usecase

import (
	"errors"
	"strings"

	"clinic-management/internal/domain/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Locker serialises work on one record id inside the process.
type Locker interface {
	Lock(key string) (unlock func())
}

var (
	ErrPermissionDenied = apperror.New(apperror.KindPermissionDenied, "you don't have permission to perform this action")
	ErrInvalidID        = apperror.New(apperror.KindValidation, "invalid id")
	ErrInvalidDate      = apperror.New(apperror.KindValidation, "invalid date format, use YYYY-MM-DD")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// parseOptionalID parses an optional uuid field from a request.
func parseOptionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrInvalidID
	}
	return &id, nil
}

func treatmentLockKey(id uuid.UUID) string {
	return "treatment:" + id.String()
}

func invoiceLockKey(id uuid.UUID) string {
	return "invoice:" + id.String()
}
