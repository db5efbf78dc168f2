// Package rbac gates requests on the verified session identity.
package rbac

import (
	"context"
	"net/http"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// Verifier validates a bearer token and returns the identity it carries.
type Verifier interface {
	Verify(token string) (shared.Identity, error)
}

// Guard admits a request, optionally returning an enriched context, or fails with
// an error kind. Guards run in declaration order and the first failure wins.
type Guard func(r *http.Request) (context.Context, error)
