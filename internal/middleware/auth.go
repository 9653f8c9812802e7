package middleware

import (
	"net/http"
	"strings"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/logging"
)

// AuthMiddleware verifies the bearer JWT and stores the caller claims in the request context.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			authHeader := r.Header.Get("Authorization")

			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondErrorCode(w, start, nil, constants.ErrCodeUnauthorized, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(secret, strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				logging.Debug("Rejected bearer token", "error", err.Error(), "request_id", GetRequestID(r.Context()))
				common.RespondErrorCode(w, start, nil, constants.ErrCodeUnauthorized, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			setRequestStaff(r.Context(), claims.UserID())
			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
