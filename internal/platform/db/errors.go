package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// Postgres SQLSTATE codes translated at the repository boundary.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// Constraint names declared in the migrations.
const (
	ConstraintAccountsEmail     = "accounts_email_key"
	ConstraintSingleBootstrap   = "accounts_single_bootstrap_idx"
	ConstraintItemsQuantity     = "items_quantity_check"
	ConstraintDonationsQuantity = "donations_quantity_check"
)

// ConstraintName returns the violated constraint of a Postgres error, if any.
func ConstraintName(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Translate maps driver errors onto the shared error kinds. Unknown errors are
// wrapped unchanged so they surface as server faults.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case ConstraintAccountsEmail:
			return shared.ErrDuplicateEmail
		case ConstraintSingleBootstrap:
			return shared.ErrAdminAlreadyExists
		}
		return fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		// Deletes hit RESTRICT on dependents; inserts and updates reference a missing parent.
		if isStillReferenced(pgErr) {
			return shared.ErrHasDependents
		}
		return fmt.Errorf("%w: referenced record does not exist", shared.ErrNotFound)
	case codeCheckViolation:
		switch pgErr.ConstraintName {
		case ConstraintItemsQuantity:
			return shared.ErrInsufficientQuantity
		case ConstraintDonationsQuantity:
			return shared.ErrInvalidQuantity
		}
		return fmt.Errorf("%w: %s", shared.ErrInvariant, pgErr.ConstraintName)
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: value out of range", shared.ErrInvariant)
	}
	return err
}

func isStillReferenced(pgErr *pgconn.PgError) bool {
	// Postgres words RESTRICT failures as "... is still referenced from table ...".
	return strings.Contains(pgErr.Detail, "is still referenced")
}
