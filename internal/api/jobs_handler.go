package api

import (
	"context"
	"net/http"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/models/dtos"
)

// DedupeRunner runs the unkeyed duplicate pass and reports its last run.
type DedupeRunner interface {
	Run(ctx context.Context) (*dtos.DedupeResponse, error)
	Status() dtos.JobStatus
}

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	dedupeJob DedupeRunner
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(dedupeJob DedupeRunner) *JobsHandler {
	return &JobsHandler{
		dedupeJob: dedupeJob,
	}
}

// TriggerDedupe manually runs the duplicate pass
// @Summary Remove duplicate call logs
// @Description Removes exact duplicates among call logs without a device call id, keeping the earliest
// @Tags admin,jobs
// @Produce json
// @Success 200 {object} dtos.APIResponse
// @Failure 500 {object} dtos.APIResponse
// @Router /api/call-logs/dedupe [post]
func (h *JobsHandler) TriggerDedupe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		triggeredBy := ""
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			triggeredBy = claims.UserID()
		}
		logging.Info("Call log dedupe manually triggered", "triggered_by", triggeredBy)

		res, err := h.dedupeJob.Run(r.Context())
		if err != nil {
			logging.Error("Manual dedupe failed", "error", err.Error())
			common.RespondErrorCode(w, initTime, nil, constants.ErrCodeServerError, "Failed to remove duplicates", http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, initTime, "Duplicate pass completed", res)
	}
}

// GetJobStatus returns the status of background jobs
// @Summary Get job status
// @Tags admin,jobs
// @Produce json
// @Success 200 {object} dtos.APIResponse
// @Router /api/admin/jobs/status [get]
func (h *JobsHandler) GetJobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondSuccess(w, time.Now(), "Job status retrieved", []dtos.JobStatus{h.dedupeJob.Status()})
	}
}
