package auth

import (
	"context"
)

// Principal is the authenticated external identity: the provider's opaque
// stable identifier plus the profile claims it vouched for.
type Principal struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	userIDContextKey    contextKey = "auth_user_id"
)

// NewContextWithPrincipal returns a child context carrying the principal.
func NewContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext extracts the principal set by the auth middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok
}

// NewContextWithUserID returns a child context carrying the resolved internal
// user id. Set by the identity-resolver middleware after the principal has
// been mapped to a user record.
func NewContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts the resolved internal user id.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	return userID, ok
}
