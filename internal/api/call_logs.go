package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/models/dtos"
	gormModels "mepapp/calltrack/internal/models/gorm"
	"mepapp/calltrack/internal/services"

	"github.com/go-chi/chi/v5"
)

// maxBatchSize bounds POST /api/call-logs/batch.
const maxBatchSize = 500

type CallLogSubmitter interface {
	Submit(ctx context.Context, caller auth.UserClaims, req dtos.CallLogRequest) (*gormModels.CallLog, bool, error)
	SubmitBatch(ctx context.Context, caller auth.UserClaims, reqs []dtos.CallLogRequest) []dtos.BatchItemResult
}

type CallLogReader interface {
	ListAll(ctx context.Context) ([]gormModels.CallLog, error)
	ListByJob(ctx context.Context, jobID string) ([]gormModels.CallLog, error)
	ListByStaff(ctx context.Context, staffID string) ([]gormModels.CallLog, error)
	ContactSummary(ctx context.Context) ([]dtos.ContactSummary, error)
}

type CallLogResetter interface {
	ResetAll(ctx context.Context) (int64, error)
}

// SubmitCallLogHandler handles POST /api/call-logs
//
// @Summary      Submit a call log
// @Description  Idempotent on (phoneCallId, staffId). 201 when stored now, 200 when it already existed.
// @Tags         CallLogs
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.CallLogRequest  true  "Call log"
// @Success      201  {object}  dtos.APIResponse
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/call-logs [post]
func SubmitCallLogHandler(svc CallLogSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CallLogRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		log, created, err := svc.Submit(r.Context(), auth.GetUserClaims(r.Context()), req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		if created {
			common.RespondSuccess(w, initTime, "Call log created", services.CallLogToResponse(log), http.StatusCreated)
			return
		}
		common.RespondSuccess(w, initTime, "Call log already recorded", services.CallLogToResponse(log))
	}
}

// SubmitCallLogBatchHandler handles POST /api/call-logs/batch
func SubmitCallLogBatchHandler(svc CallLogSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var reqs []dtos.CallLogRequest
		if !decodeJSON(w, r, initTime, &reqs) {
			return
		}
		if len(reqs) == 0 || len(reqs) > maxBatchSize {
			common.RespondErrorCode(w, initTime, nil, constants.ErrCodeInvalidRequest,
				fmt.Sprintf("Batch must contain between 1 and %d call logs", maxBatchSize), http.StatusBadRequest)
			return
		}

		results := svc.SubmitBatch(r.Context(), auth.GetUserClaims(r.Context()), reqs)
		common.RespondSuccess(w, initTime, "Batch processed", results)
	}
}

// PingHandler handles GET /api/call-logs/ping
func PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondSuccess(w, time.Now(), "pong", dtos.PingResponse{Status: "ok"})
	}
}

// ListCallLogsHandler handles GET /api/call-logs (admin)
func ListCallLogsHandler(svc CallLogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		logs, err := svc.ListAll(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Call logs fetched", services.CallLogsToResponse(logs))
	}
}

// ListCallLogsByJobHandler handles GET /api/call-logs/job/{jobId}
func ListCallLogsByJobHandler(svc CallLogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		logs, err := svc.ListByJob(r.Context(), chi.URLParam(r, "jobId"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Call logs fetched", services.CallLogsToResponse(logs))
	}
}

// ListCallLogsByStaffHandler handles GET /api/call-logs/staff/{staffId}
// STAFF callers may only read their own logs.
func ListCallLogsByStaffHandler(svc CallLogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		staffID := chi.URLParam(r, "staffId")

		claims := auth.GetUserClaims(r.Context())
		if claims != nil && !claims.IsAdmin() && claims.UserID() != staffID {
			respondServiceError(w, r, initTime, services.ErrForbiddenStaff)
			return
		}

		logs, err := svc.ListByStaff(r.Context(), staffID)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Call logs fetched", services.CallLogsToResponse(logs))
	}
}

// ContactSummaryHandler handles GET /api/call-logs/contacts (admin)
func ContactSummaryHandler(svc CallLogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		summary, err := svc.ContactSummary(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Contact summary fetched", summary)
	}
}

// ResetCallLogsHandler handles DELETE /api/call-logs/cleanup-duplicates (admin).
// Deletes every call log; the path is kept for existing runbooks.
func ResetCallLogsHandler(svc CallLogResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		deleted, err := svc.ResetAll(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "All call logs deleted", dtos.ResetResponse{
			Status:       "success",
			TotalDeleted: deleted,
			Message:      fmt.Sprintf("Deleted %d call logs", deleted),
		})
	}
}
