package rbac

import (
	"errors"
	"strings"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// errMissingIdentity signals a route that checks roles before authenticating.
var errMissingIdentity = errors.New("rbac: role checked without an authenticated identity")

// RequireAuthenticated verifies the Authorization header value and returns the
// identity it carries.
func RequireAuthenticated(verifier Verifier, header string) (shared.Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		return shared.Identity{}, shared.ErrMalformedToken
	}
	return verifier.Verify(token)
}

// RequireAdmin fails with ErrForbidden unless identity is an administrator.
func RequireAdmin(identity shared.Identity) error {
	if !identity.IsAdmin {
		return shared.ErrForbidden
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
