package middleware

import (
	"net/http"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.IsAdmin() {
				common.RespondErrorCode(w, time.Now(), nil, constants.ErrCodeForbidden, "Forbidden. Admin role required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
