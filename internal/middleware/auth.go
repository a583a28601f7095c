package middleware

import (
	"context"
	"net/http"
	"strings"

	"dating-backend/internal/models"
	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const identityKey contextKey = "identity"

// ActivityRecorder bumps a member's last-active timestamp on each
// authenticated request
type ActivityRecorder interface {
	UpdateLastActive(ctx context.Context, memberID string) error
}

// Auth creates a middleware that verifies the bearer token and puts the
// resolved identity on the request context. It also records activity.
func Auth(tokens *services.TokenService, activity ActivityRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if activity != nil {
				if err := activity.UpdateLastActive(r.Context(), identity.ID); err != nil {
					log.Warn().Err(err).Str("member_id", identity.ID).Msg("Failed to record activity")
				}
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates a middleware that only lets callers holding at
// least one of the named roles through
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if !identity.HasAnyRole(roles...) {
				respondError(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity extracts the authenticated identity from the context
func GetIdentity(ctx context.Context) models.Identity {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	if !ok {
		return models.Identity{}
	}
	return identity
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
