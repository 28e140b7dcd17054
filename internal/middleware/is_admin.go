package middleware

import (
	"net/http"
	"time"

	"tyrehub/catalog/internal/auth"
	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/constants"
)

// IsAdminMiddleware must run after AuthMiddleware.
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetClaims(r.Context())
			if claims == nil || !claims.IsAdmin() {
				common.RespondError(w, time.Now(), nil, constants.MsgForbidden, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
