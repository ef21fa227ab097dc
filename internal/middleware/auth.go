package middleware

import (
	"net/http"
	"strings"

	"github.com/baharkarakas/storefront-backend/internal/api/httpx"
	"github.com/baharkarakas/storefront-backend/internal/auth"
	"github.com/baharkarakas/storefront-backend/internal/models"
)

type AuthMiddleware struct {
	TM     *auth.TokenManager
	AppEnv string
}

func NewAuthMiddleware(tm *auth.TokenManager, appEnv string) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, AppEnv: appEnv}
}

// Auth accepts "Bearer <access JWT>". In dev, "Bearer dev-admin" and
// "Bearer dev-staff" are accepted as well.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
			httpx.Fail(w, http.StatusUnauthorized, "missing bearer token", "", nil)
			return
		}
		token := strings.TrimSpace(ah[7:])

		if m.AppEnv == "dev" && strings.HasPrefix(token, "dev-") {
			role := strings.TrimPrefix(token, "dev-")
			if role == models.RoleAdmin || role == models.RoleStaff {
				ctx := WithUser(r.Context(), UserCtx{UserID: "dev-" + role, Role: role})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		claims, err := m.TM.ParseAccess(token)
		if err != nil {
			httpx.Fail(w, http.StatusUnauthorized, "invalid access token", "", nil)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{UserID: claims.UserID, Role: claims.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
