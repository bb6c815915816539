package middleware

// identity.go carries the authenticated caller through the request context.
// Handlers read it with IdentityFrom; nothing downstream of JWTAuth ever
// trusts a user id or role taken from the request body or query.

import (
	"context"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
)

// Identity is the verified caller.
type Identity struct {
	UserID uint64
	Role   model.Role
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != 0
}
