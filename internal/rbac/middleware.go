package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shelterstock/shelterstock/internal/platform/httpx"
	"github.com/shelterstock/shelterstock/internal/shared"
)

// Middleware wires authorization guards for HTTP handlers.
type Middleware struct {
	Verifier Verifier
	Logger   *slog.Logger
}

// Authenticated admits requests carrying a valid bearer token and stores the
// identity in the request context.
func (m Middleware) Authenticated() Guard {
	return func(r *http.Request) (context.Context, error) {
		identity, err := RequireAuthenticated(m.Verifier, r.Header.Get("Authorization"))
		if err != nil {
			return nil, err
		}
		return shared.ContextWithIdentity(r.Context(), identity), nil
	}
}

// Admin admits requests whose identity is an administrator. It must follow
// Authenticated.
func (m Middleware) Admin() Guard {
	return func(r *http.Request) (context.Context, error) {
		identity, ok := shared.IdentityFromContext(r.Context())
		if !ok {
			return nil, errMissingIdentity
		}
		if err := RequireAdmin(identity); err != nil {
			return nil, err
		}
		return r.Context(), nil
	}
}

// Require runs guards in order. The first failing guard answers the request and
// no later guard or handler runs.
func (m Middleware) Require(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, guard := range guards {
				ctx, err := guard(r)
				if err != nil {
					if httpx.StatusFor(err) >= http.StatusInternalServerError {
						m.logger().Error("rbac guard", slog.String("path", r.URL.Path), slog.Any("error", err))
					}
					httpx.RespondError(w, err)
					return
				}
				if ctx != nil {
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate is Require(Authenticated()).
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return m.Require(m.Authenticated())(next)
}

// RequireAdmin is Require(Admin()).
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Require(m.Admin())(next)
}

func (m Middleware) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
