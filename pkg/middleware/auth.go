package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
)

type identityKeyType struct{}

var IdentityKey = identityKeyType{}

// Auth extracts the bearer credential, verifies it and injects the caller
// identity into the request context.
func Auth(authn contracts.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
				return
			}
			identity, err := authn.Verify(r.Context(), parts[1])
			if err != nil {
				http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the verified caller, if any.
func IdentityFromContext(ctx context.Context) (contracts.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(contracts.Identity)
	return id, ok
}
