package auth

import "context"

// Identity is the authenticated principal attached to a request. Handlers
// extract it explicitly and pass the user id into store calls; nothing
// downstream reads ambient request state.
type Identity struct {
	UserID string
}

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity bound to ctx, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
