package shared

import (
	"context"
	"time"
)

// Identity is the verified session claim carried by a bearer token.
type Identity struct {
	AccountID int64
	IsAdmin   bool
	ShelterID int64
	ExpiresAt time.Time
}

type identityContextKey struct{}

// ContextWithIdentity stores the verified identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
