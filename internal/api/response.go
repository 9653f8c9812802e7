package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/middleware"
	"mepapp/calltrack/internal/services"
)

// respondServiceError maps a service error onto status code and error code.
func respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error) {
	code := services.ErrorCodeFor(err)

	status := http.StatusInternalServerError
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrForbiddenStaff):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrStaffNotFound):
		status = http.StatusNotFound
	default:
		logging.Error("Request failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		common.RespondErrorCode(w, initTime, nil, code, constants.GetErrorMessage(code), status)
		return
	}

	common.RespondErrorCode(w, initTime, err, code, constants.GetErrorMessage(code), status)
}

// decodeJSON decodes the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, initTime time.Time, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondErrorCode(w, initTime, err, constants.ErrCodeInvalidRequest, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
