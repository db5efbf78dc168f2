package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/shelterstock/shelterstock/internal/shared"
)

func newGuardedRouter(m Middleware, reached *bool) http.Handler {
	r := chi.NewRouter()
	handler := func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		identity, _ := shared.IdentityFromContext(r.Context())
		w.Header().Set("X-Account", "ok")
		if identity.IsAdmin {
			w.Header().Set("X-Admin", "1")
		}
		w.WriteHeader(http.StatusNoContent)
	}
	r.Group(func(r chi.Router) {
		r.Use(m.Authenticate)
		r.Get("/member", handler)
		r.With(m.RequireAdmin).Get("/admin", handler)
	})
	r.With(m.RequireAdmin).Get("/misconfigured", handler)
	return r
}

func TestMiddlewareGuards(t *testing.T) {
	m := Middleware{Verifier: stubVerifier{
		"member": {AccountID: 2},
		"admin":  {AccountID: 1, IsAdmin: true},
	}}

	cases := []struct {
		name    string
		path    string
		header  string
		status  int
		reached bool
	}{
		{"no header", "/member", "", http.StatusUnauthorized, false},
		{"expired", "/member", "Bearer expired", http.StatusUnauthorized, false},
		{"forged", "/admin", "Bearer forged", http.StatusUnauthorized, false},
		{"member ok", "/member", "Bearer member", http.StatusNoContent, true},
		{"member forbidden", "/admin", "Bearer member", http.StatusForbidden, false},
		{"admin ok", "/admin", "Bearer admin", http.StatusNoContent, true},
		{"role without identity", "/misconfigured", "Bearer admin", http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			router := newGuardedRouter(m, &reached)
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			res := httptest.NewRecorder()
			router.ServeHTTP(res, req)

			require.Equal(t, tc.status, res.Code)
			require.Equal(t, tc.reached, reached)
			if tc.status == http.StatusUnauthorized {
				require.NotEmpty(t, res.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireStopsAtFirstFailingGuard(t *testing.T) {
	m := Middleware{Verifier: stubVerifier{}}
	later := 0
	counting := func(r *http.Request) (context.Context, error) {
		later++
		return nil, nil
	}
	reached := false
	h := m.Require(m.Authenticated(), counting)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Zero(t, later)
	require.False(t, reached)
}
