package api

import (
	"context"
	"net/http"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/models/dtos"
	gormModels "mepapp/calltrack/internal/models/gorm"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*gormModels.User, error)
}

// WhoAmIHandler handles GET /api/auth/me
//
// @Summary      Resolve the caller
// @Description  Returns the staff member behind the bearer token. Devices use it as the session health probe.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/auth/me [get]
func WhoAmIHandler(users UserFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondErrorCode(w, initTime, nil, constants.ErrCodeUnauthorized, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		user, err := users.FindByID(r.Context(), claims.UserID())
		if err != nil {
			common.RespondErrorCode(w, initTime, nil, constants.ErrCodeServerError, "Failed to fetch user", http.StatusInternalServerError)
			return
		}
		if user == nil {
			common.RespondErrorCode(w, initTime, nil, constants.ErrCodeStaffNotFound, constants.GetErrorMessage(constants.ErrCodeStaffNotFound), http.StatusNotFound)
			return
		}
		if user.Status != constants.UserStatusActive {
			common.RespondErrorCode(w, initTime, nil, constants.ErrCodeUnauthorized, "User is inactive", http.StatusUnauthorized)
			return
		}

		common.RespondSuccess(w, initTime, "User fetched", dtos.WhoAmIResponse{
			ID:    user.ID,
			Name:  user.Name,
			Phone: user.Phone,
			Role:  user.Role.String(),
		})
	}
}
