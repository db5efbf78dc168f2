package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these roots.
var (
	// ErrValidation indicates malformed input rejected before any business logic.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates the caller could not be authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authenticated caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or referential constraint clash.
	ErrConflict = errors.New("conflict")
	// ErrInvariant indicates an operation that would break a domain invariant.
	ErrInvariant = errors.New("invariant violation")
	// ErrTooManyRequests indicates the caller is being throttled.
	ErrTooManyRequests = errors.New("too many requests")
)

// Authentication failures.
var (
	ErrInvalidSignature   = fmt.Errorf("%w: invalid token signature", ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrMalformedToken     = fmt.Errorf("%w: malformed token", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)

// Conflicts.
var (
	ErrDuplicateEmail     = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAdminAlreadyExists = fmt.Errorf("%w: an administrator already exists", ErrConflict)
	ErrHasDependents      = fmt.Errorf("%w: record still has dependent records", ErrConflict)
)

// Invariant violations.
var (
	ErrInsufficientQuantity = fmt.Errorf("%w: insufficient quantity", ErrInvariant)
	ErrInvalidDelta         = fmt.Errorf("%w: delta must be a positive integer", ErrInvariant)
	ErrInvalidQuantity      = fmt.Errorf("%w: quantity must be a positive integer", ErrInvariant)
)

// Validationf builds an ErrValidation with a caller supplied message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// UserSafeMessage returns a message that can be shown to API clients.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvariant),
		errors.Is(err, ErrTooManyRequests),
		errors.Is(err, ErrForbidden):
		return err.Error()
	case errors.Is(err, ErrUnauthorized):
		// Credentials errors collapse into one message so callers cannot probe emails.
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrInvalidCredentials.Error()
		}
		return err.Error()
	default:
		return "internal error"
	}
}
