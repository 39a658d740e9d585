package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "guardpost/pkg/domain-errors"
	"guardpost/pkg/platform/httputil"
	"guardpost/pkg/requestcontext"
)

// ActorClaims is what the token validator extracts from a bearer token.
type ActorClaims struct {
	Subject string
	Role    string
}

// TokenValidator verifies a bearer token and returns the actor it names.
type TokenValidator interface {
	ValidateToken(token string) (*ActorClaims, error)
}

// RequireAuth rejects requests without a valid bearer token and injects the
// actor into the request context. The engine trusts the identity layer that
// issued the token; this middleware only verifies and extracts.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "token rejected", "error", err)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}

			ctx := requestcontext.WithActor(r.Context(), claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
