package middleware

import (
	"net/http"
	"strings"
	"time"

	"tyrehub/catalog/internal/auth"
	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/logging"
)

// AuthMiddleware validates the bearer token and stores its claims on the
// request context.
func AuthMiddleware(signer *auth.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, start, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			claims, err := signer.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Warn("Rejected bearer token",
					"request_id", auth.GetRequestID(r.Context()),
					"error", err,
				)
				common.RespondError(w, start, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
