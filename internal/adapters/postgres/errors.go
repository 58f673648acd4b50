package postgres

import (
	"errors"
	"strings"

	"casetrack/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes surfaced as distinguishable domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// translateError maps store-level constraint violations to domain errors so
// raw Postgres codes never reach a handler.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		switch {
		case strings.Contains(pgErr.ConstraintName, "case_number"):
			return domain.ErrCaseNumberExists
		default:
			return domain.ErrEmailAlreadyExists
		}
	case codeForeignKeyViolation:
		if strings.Contains(pgErr.ConstraintName, "assigned_officer") {
			return domain.ErrAssignedOfficerGone
		}
		return domain.ErrUserNotFound
	case codeCheckViolation:
		return checkViolationError(pgErr.ConstraintName)
	}

	return err
}

func checkViolationError(constraint string) error {
	switch {
	case strings.Contains(constraint, "name"):
		return domain.NewFieldError("name", "Name must be between 2 and 20 characters.")
	case strings.Contains(constraint, "rank"):
		return domain.NewFieldError("rank", "Invalid rank provided.")
	case strings.Contains(constraint, "email"):
		return domain.NewFieldError("email_id", "Invalid email format.")
	case strings.Contains(constraint, "purpose"):
		return domain.NewFieldError("purpose", "Invalid OTP purpose.")
	default:
		return domain.NewFieldError("common", "Invalid data provided.")
	}
}
