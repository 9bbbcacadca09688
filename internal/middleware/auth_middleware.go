package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"bus-track/internal/token"
)

type contextKey string

const identityKey contextKey = "identity"

type AuthMiddleware struct {
	tokens *token.Manager
}

func NewAuthMiddleware(tokens *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Wrap admits any authenticated caller.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return am.RequireRole(next)
}

// RequireRole admits callers whose role is in allowed. With no roles listed any
// authenticated caller passes.
func (am *AuthMiddleware) RequireRole(next http.Handler, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := am.tokens.Verify(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if len(allowed) > 0 {
			ok := false
			for _, role := range allowed {
				if id.Role == role {
					ok = true
					break
				}
			}
			if !ok {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
		}

		ctx := context.WithValue(r.Context(), identityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFrom returns the identity stored by the middleware, if any.
func IdentityFrom(ctx context.Context) (token.Identity, bool) {
	id, ok := ctx.Value(identityKey).(token.Identity)
	return id, ok
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": msg,
		"code":  code,
	})
}
