package middleware

import (
	"net/http"
	"strings"

	"github.com/facewatch/attendance/internal/auth"
)

// TokenValidator is the subset of *auth.Manager this middleware needs,
// defined as an interface so tests can substitute a fake.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// JWTAuth verifies the bearer token and injects an AuthContext. Unlike the
// teacher's JWTAuth there is no tenant-scoped blacklist lookup on every
// request; revocation (logout) is checked only via the optional
// blacklist, keyed purely by jti.
type JWTAuth struct {
	tokens    TokenValidator
	blacklist auth.TokenBlacklist // nil disables revocation checks
}

func NewJWTAuth(t TokenValidator, b auth.TokenBlacklist) *JWTAuth {
	return &JWTAuth{tokens: t, blacklist: b}
}

func (m *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsBlacklisted(r.Context(), claims.ID)
			if err != nil || revoked {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		ac := &AuthContext{OperatorID: claims.OperatorID, Role: claims.Role, TokenID: claims.ID}
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
	})
}
