package session

import (
	"context"

	"pixelminds/internal/pkg/auth/jwt"
)

type contextKey string

// identityKey stores the *jwt.Identity of a guarded request.
const identityKey contextKey = "session_identity"

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *jwt.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity, or nil.
func IdentityFromContext(ctx context.Context) *jwt.Identity {
	identity, ok := ctx.Value(identityKey).(*jwt.Identity)
	if !ok {
		return nil
	}
	return identity
}
