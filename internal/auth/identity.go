package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityContextKey is the context key for the authenticated identity.
const identityContextKey contextKey = "identity"

// ContextWithIdentity stores the authenticated user's email in the context.
// The authentication middleware resolves it once per request; everything
// downstream reads it from here and passes it on explicitly.
func ContextWithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityContextKey, email)
}

// IdentityFromContext retrieves the authenticated email from the context.
// Returns empty string if the request is not authenticated.
func IdentityFromContext(ctx context.Context) string {
	email, ok := ctx.Value(identityContextKey).(string)
	if !ok {
		return ""
	}
	return email
}

// MustIdentityFromContext retrieves the authenticated email from the context.
// Panics if not present (use only when the auth middleware has run).
func MustIdentityFromContext(ctx context.Context) string {
	email := IdentityFromContext(ctx)
	if email == "" {
		panic("identity not found in context - ensure auth middleware is applied")
	}
	return email
}
