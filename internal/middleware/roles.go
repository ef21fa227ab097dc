package middleware

import (
	"net/http"

	"github.com/baharkarakas/storefront-backend/internal/api/httpx"
)

// RequireRole lets through only authenticated callers holding one of roles.
// It must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := FromCtx(r.Context())
			if !ok {
				httpx.Fail(w, http.StatusUnauthorized, "authentication required", "", nil)
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				httpx.Fail(w, http.StatusForbidden, "forbidden", "", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
