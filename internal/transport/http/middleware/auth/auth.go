package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/store/internal/transport/http/respond"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/corray333/backend-labs/store/pkg/jwtauth"
)

type contextKey struct{}

var claimsKey contextKey

// ClaimsFromContext returns the verified token claims, or nil when the
// request did not pass through Verifier.
func ClaimsFromContext(ctx context.Context) *jwtauth.Claims {
	claims, _ := ctx.Value(claimsKey).(*jwtauth.Claims)

	return claims
}

// Verifier rejects requests without a valid bearer token and stores the
// claims in the request context.
func Verifier(tokens *jwtauth.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				respond.Error(w, r, apperr.Unauthorized("missing bearer token"))

				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				respond.Error(w, r, apperr.Unauthorized("invalid or expired token"))

				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It must run after Verifier.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			respond.Error(w, r, apperr.Unauthorized("missing bearer token"))

			return
		}
		if !claims.IsAdmin() {
			respond.Error(w, r, apperr.Forbidden("admin role required"))

			return
		}

		next.ServeHTTP(w, r)
	})
}
