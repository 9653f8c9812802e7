package api

import (
	"net/http"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

func (h *Handlers) SubmitCallLog() http.HandlerFunc {
	return SubmitCallLogHandler(h.deps.Services.CallLogs)
}

func (h *Handlers) SubmitCallLogBatch() http.HandlerFunc {
	return SubmitCallLogBatchHandler(h.deps.Services.CallLogs)
}

func (h *Handlers) ListCallLogs() http.HandlerFunc {
	return ListCallLogsHandler(h.deps.Services.CallLogs)
}

func (h *Handlers) ListCallLogsByJob() http.HandlerFunc {
	return ListCallLogsByJobHandler(h.deps.Services.CallLogs)
}

func (h *Handlers) ListCallLogsByStaff() http.HandlerFunc {
	return ListCallLogsByStaffHandler(h.deps.Services.CallLogs)
}

func (h *Handlers) ContactSummary() http.HandlerFunc {
	return ContactSummaryHandler(h.deps.Services.CallLogs)
}

func (h *Handlers) ResetCallLogs() http.HandlerFunc {
	return ResetCallLogsHandler(h.deps.Services.CallLogs)
}

func (h *Handlers) WhoAmI() http.HandlerFunc {
	return WhoAmIHandler(h.deps.Repo.Users)
}
