// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"
	"strings"

	"github.com/gametribe/backend/pkg/auth"
	"github.com/gametribe/backend/pkg/middleware"
	"github.com/gametribe/backend/pkg/response"
)

// HasRole returns middleware that allows access only to callers holding one
// of the given roles. middleware.Auth must have run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest blocks already-authenticated callers. Useful on login and register.
// It runs on routes outside the auth chain, so when the context carries no
// identity it inspects the Authorization header itself.
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		if raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "); raw != "" {
			if _, err := auth.ValidateToken(raw); err == nil {
				response.Error(w, http.StatusConflict, "Already authenticated")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
