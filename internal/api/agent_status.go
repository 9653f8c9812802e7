package api

import (
	"context"
	"net/http"
	"time"

	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/models/dtos"
	"mepapp/calltrack/internal/services"

	"github.com/go-playground/validator/v10"
)

// SyncRunner is the agent's sync engine as seen by the status server.
type SyncRunner interface {
	RunCycle(ctx context.Context) (*services.CycleResult, error)
	Status(ctx context.Context) (*services.SyncStatus, error)
}

// SessionManager is the device session as seen by the status server.
type SessionManager interface {
	CurrentStaffID(ctx context.Context) (string, error)
	CurrentSessionToken(ctx context.Context) (string, error)
	Login(ctx context.Context, staffID, token string) error
	Logout(ctx context.Context) error
}

type BreakerStateSource interface {
	State() string
}

var sessionValidator = validator.New(validator.WithRequiredStructEnabled())

// SyncStatusHandler handles GET /status on the agent
func SyncStatusHandler(engine SyncRunner, session SessionManager, health BreakerStateSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		status, err := engine.Status(r.Context())
		if err != nil {
			logging.Error("Failed to read sync status", "error", err.Error())
			common.RespondError(w, initTime, nil, "Failed to read sync status", http.StatusInternalServerError)
			return
		}
		staffID, err := session.CurrentStaffID(r.Context())
		if err != nil {
			common.RespondError(w, initTime, nil, "Failed to read session", http.StatusInternalServerError)
			return
		}
		token, err := session.CurrentSessionToken(r.Context())
		if err != nil {
			common.RespondError(w, initTime, nil, "Failed to read session", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Sync status", dtos.SyncStatusResponse{
			StaffID:      staffID,
			LoggedIn:     token != "",
			Pending:      status.Pending,
			Synced:       status.Synced,
			LastSyncAt:   status.LastSyncAt,
			BreakerState: health.State(),
		})
	}
}

// SyncNowHandler handles POST /sync on the agent. Joins a running cycle if there is one.
func SyncNowHandler(engine SyncRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		result, err := engine.RunCycle(r.Context())
		if err != nil {
			logging.Error("Manual sync cycle failed", "error", err.Error())
			common.RespondError(w, initTime, nil, "Sync cycle failed", http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, initTime, "Sync cycle finished", result)
	}
}

// SessionLoginHandler handles POST /session on the agent
func SessionLoginHandler(session SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SessionRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}
		if err := sessionValidator.Struct(req); err != nil {
			common.RespondErrorCode(w, initTime, err, constants.ErrCodeInvalidRequest, "staff_id and token are required", http.StatusBadRequest)
			return
		}

		if err := session.Login(r.Context(), req.StaffID, req.Token); err != nil {
			common.RespondError(w, initTime, err, "Failed to store session", http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, initTime, "Session stored", map[string]string{"staff_id": req.StaffID})
	}
}

// SessionLogoutHandler handles DELETE /session on the agent
func SessionLogoutHandler(session SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := session.Logout(r.Context()); err != nil {
			common.RespondError(w, initTime, err, "Failed to clear session", http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, initTime, "Logged out", nil)
	}
}
