// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/mockshop/pkg/auth"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// HasRole allows only callers whose role is one of roles. It must run after
// middleware.Auth. Unauthenticated callers get 401, others 403.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	message := "Forbidden - " + strings.Join(titled(roles), " or ") + " access required"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFrom(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			if !allowed[id.Role] {
				response.Forbidden(w, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is HasRole(auth.RoleAdmin).
func Admin() func(http.Handler) http.Handler {
	return HasRole(auth.RoleAdmin)
}

// Guest blocks authenticated callers (login, register).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFrom(r.Context()); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func titled(roles []string) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		lower := strings.ToLower(r)
		if lower == "" {
			continue
		}
		out[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return out
}
