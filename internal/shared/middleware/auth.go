package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"bookswap/internal/shared/apperr"
	"bookswap/internal/shared/render"
	"bookswap/internal/shared/token"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const userIDKey contextKey = "userID"

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) uuid.UUID {
	userID, _ := ctx.Value(userIDKey).(uuid.UUID)
	return userID
}

// WithUserID returns a context carrying the given user ID. Used by tests to
// call handlers without going through the middleware.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// NewAuthMiddleware creates authentication middleware that validates the
// bearer credential on protected routes. It extracts the user ID from the
// token and adds it to the request context for downstream handlers.
func NewAuthMiddleware(verifier *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				render.Error(w, apperr.Auth("missing bearer credential"))
				return
			}

			userID, err := verifier.Verify(raw)
			if err != nil {
				render.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	return auth[len(prefix):], true
}
