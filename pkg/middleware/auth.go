package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/mockshop/pkg/auth"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth rejects requests without a valid access token and stores the caller's
// identity in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			response.Unauthorized(w, "Unauthorized")
			return
		}

		claims, err := auth.ValidateAccess(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{
			UserID: claims.UserID,
			Role:   claims.Role,
			Claims: claims,
		})))
	})
}

// OptionalAuth attaches the identity when a valid token is present and lets
// the request through as a guest otherwise.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearer(r); token != "" {
			if claims, err := auth.ValidateAccess(token); err == nil {
				r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{
					UserID: claims.UserID,
					Role:   claims.Role,
					Claims: claims,
				}))
			}
		}
		next.ServeHTTP(w, r)
	})
}
