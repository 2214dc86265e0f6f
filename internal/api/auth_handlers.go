package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/facewatch/attendance/internal/auth"
	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/middleware"
)

// AuthHandler issues and revokes operator bearer tokens. Scaled down from
// the teacher's auth_handlers.go: no refresh-token rotation or session
// store, since a single short-lived JWT is all a one-tenant deployment
// needs (see internal/auth.Manager).
type AuthHandler struct {
	Operators data.OperatorRepository
	Tokens    *auth.Manager
	Lockout   *auth.Lockout
	Blacklist auth.TokenBlacklist
	TokenTTL  string // informational only; not set by NewAuthHandler and not included in the login response
}

func NewAuthHandler(operators data.OperatorRepository, tokens *auth.Manager, lockout *auth.Lockout, blacklist auth.TokenBlacklist) *AuthHandler {
	return &AuthHandler{Operators: operators, Tokens: tokens, Lockout: lockout, Blacklist: blacklist}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if locked, err := h.Lockout.CheckLockout(r.Context(), req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	} else if locked {
		respondError(w, http.StatusTooManyRequests, "account temporarily locked, try again later")
		return
	}

	operator, err := h.Operators.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, data.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// A missing operator and a wrong password look the same to the caller:
	// check against a fixed hash so the response timing doesn't leak which.
	passwordHash := "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"
	if operator != nil {
		passwordHash = operator.PasswordHash
	}
	validPassword := auth.CheckPassword(req.Password, passwordHash)

	if operator == nil || operator.IsDisabled || !validPassword {
		if err := h.Lockout.RecordFailedAttempt(r.Context(), req.Email); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.Lockout.ClearAttempts(r.Context(), req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.Tokens.GenerateToken(operator.ID.String(), operator.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	claims, err := h.Tokens.ValidateToken(bearerToken(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if err := h.Blacklist.Revoke(r.Context(), ac.TokenID, ttl); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
