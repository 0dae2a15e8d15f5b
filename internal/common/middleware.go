package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const sessionContextKey contextKey = "session"

// AuthMiddleware guards protected routes. It validates the Bearer token
// and injects the session claims into the request context; requests
// without a valid token are rejected with 401.
func AuthMiddleware(tokens *TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				WriteError(w, http.StatusUnauthorized, "authorization required")
				return
			}

			parts := strings.Fields(header)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, http.StatusUnauthorized, "invalid auth header")
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated user's claims, if any.
func SessionFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(sessionContextKey).(*Claims)
	return claims, ok
}

// ContextWithSession attaches session claims to a context. Used by the
// middleware and by handler tests.
func ContextWithSession(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, sessionContextKey, claims)
}
