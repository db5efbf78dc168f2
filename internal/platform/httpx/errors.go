// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// FieldErrors reports per-field validation failures.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap ties field errors to the validation kind.
func (f FieldErrors) Unwrap() error {
	return shared.ErrValidation
}

// MetaError is implemented by errors that carry client-visible details.
type MetaError interface {
	error
	ProblemMeta() map[string]any
}

// StatusFor maps an error kind onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvariant):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	problem := ProblemDetail{
		Title:  http.StatusText(status),
		Status: status,
		Detail: shared.UserSafeMessage(err),
	}
	var fields FieldErrors
	if errors.As(err, &fields) {
		problem.Errors = fields
	}
	var meta MetaError
	if errors.As(err, &meta) {
		problem.Meta = meta.ProblemMeta()
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="shelterstock"`)
	}
	JSON(w, status, problem)
}
