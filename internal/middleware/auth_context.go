package middleware

import "context"

type contextKey string

const authContextKey contextKey = "auth_context"

// AuthContext holds the authenticated operator's identity. There is no
// tenant or permission-grant dimension here — fine-grained authorization
// and multi-tenant isolation are spec.md non-goals, so one bearer token is
// either valid or it isn't.
type AuthContext struct {
	OperatorID string
	Role       string
	TokenID    string // jti, used by the logout/revoke handler
}

// GetAuthContext retrieves the AuthContext from the context.
func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	val, ok := ctx.Value(authContextKey).(*AuthContext)
	return val, ok
}

// WithAuthContext attaches the AuthContext to the context.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}
