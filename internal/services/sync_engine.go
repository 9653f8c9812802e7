package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
	"mepapp/calltrack/internal/models/dtos"
	gormModels "mepapp/calltrack/internal/models/gorm"
	"mepapp/calltrack/internal/providers"

	"golang.org/x/sync/singleflight"
)

// LocalCallStore is the part of the device store the sync engine drives.
type LocalCallStore interface {
	ListUnsynced(ctx context.Context) ([]gormModels.DeviceCallRecord, error)
	MarkSynced(ctx context.Context, localIDs []int64) error
	RecordFailure(ctx context.Context, localID int64, cause string) error
	CountByState(ctx context.Context) (map[constants.SyncState]int64, error)
}

// SyncClock persists the time of the last successful submission.
type SyncClock interface {
	LastSyncAt(ctx context.Context) (*time.Time, error)
	SetLastSyncAt(ctx context.Context, t time.Time) error
}

// CallSubmitter sends one record to the server.
type CallSubmitter interface {
	SubmitCall(ctx context.Context, token string, req dtos.CallLogRequest) (*dtos.CallLogResponse, error)
}

// SubmissionGate decides whether submission may run.
type SubmissionGate interface {
	Check(ctx context.Context) (bool, string)
}

// CycleResult summarizes one sync cycle.
type CycleResult struct {
	Capture    *CaptureResult `json:"capture"`
	CaptureErr string         `json:"capture_error,omitempty"`
	Submitted  bool           `json:"submitted"`
	SkipReason string         `json:"skip_reason,omitempty"`
	Attempted  int            `json:"attempted"`
	Synced     int            `json:"synced"`
	Failed     int            `json:"failed"`
	Shared     bool           `json:"shared"`
	Duration   time.Duration  `json:"duration"`
}

// SyncStatus is what the status indicator shows.
type SyncStatus struct {
	Pending    int64
	Synced     int64
	LastSyncAt *time.Time
}

// SyncEngine runs capture then submission of every PENDING record.
// Concurrent RunCycle calls share one execution.
type SyncEngine struct {
	capture       *CallCaptureService
	store         LocalCallStore
	clock         SyncClock
	gate          SubmissionGate
	tokens        TokenSource
	submitter     CallSubmitter
	submitTimeout time.Duration
	metrics       *metrics.AgentMetrics

	group    singleflight.Group
	lifetime context.Context
	now      func() time.Time
}

func NewSyncEngine(
	capture *CallCaptureService,
	store LocalCallStore,
	clock SyncClock,
	gate SubmissionGate,
	tokens TokenSource,
	submitter CallSubmitter,
	submitTimeout time.Duration,
	m *metrics.AgentMetrics,
) *SyncEngine {
	if submitTimeout <= 0 {
		submitTimeout = 10 * time.Second
	}
	return &SyncEngine{
		capture:       capture,
		store:         store,
		clock:         clock,
		gate:          gate,
		tokens:        tokens,
		submitter:     submitter,
		submitTimeout: submitTimeout,
		metrics:       m,
		lifetime:      context.Background(),
		now:           time.Now,
	}
}

// Bind sets the context shared cycles run on. Cancelling it stops a running
// cycle between record submissions.
func (e *SyncEngine) Bind(ctx context.Context) {
	e.lifetime = ctx
}

// RunCycle captures new calls and, when the gate allows it, submits every
// PENDING record. A caller arriving while a cycle runs gets that cycle's result
// with Shared set. The cycle runs on the bound context; ctx only bounds how long
// this caller waits for it.
func (e *SyncEngine) RunCycle(ctx context.Context) (*CycleResult, error) {
	ch := e.group.DoChan("sync-cycle", func() (interface{}, error) {
		return e.runCycle(e.lifetime)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		e.metrics.SyncCycles.WithLabelValues("error").Inc()
		return nil, res.Err
	}

	result := *res.Val.(*CycleResult)
	result.Shared = res.Shared
	return &result, nil
}

func (e *SyncEngine) runCycle(ctx context.Context) (*CycleResult, error) {
	start := e.now()
	result := &CycleResult{}
	defer func() {
		result.Duration = time.Since(start)
		e.metrics.SyncCycleDuration.Observe(result.Duration.Seconds())
	}()

	captured, err := e.capture.Capture(ctx)
	result.Capture = captured
	if err != nil {
		var ce *CaptureError
		if !errors.As(err, &ce) {
			return nil, err
		}
		result.CaptureErr = ce.Error()
		logging.Warn("Call capture failed, continuing to submission", "error", ce.Error())
	}

	if ok, reason := e.gate.Check(ctx); !ok {
		result.SkipReason = reason
		e.refreshPending(ctx)
		e.metrics.SyncCycles.WithLabelValues("offline").Inc()
		logging.Debug("Submission skipped", "reason", reason)
		return result, nil
	}

	token, err := e.tokens.CurrentSessionToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if token == "" {
		result.SkipReason = constants.ErrCodeSessionMissing
		e.metrics.SyncCycles.WithLabelValues("offline").Inc()
		return result, nil
	}

	records, err := e.store.ListUnsynced(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unsynced records: %w", err)
	}
	result.Submitted = true

	for _, rec := range records {
		if ctx.Err() != nil {
			logging.Info("Sync cycle cancelled between records", "remaining", len(records)-result.Attempted)
			break
		}
		if !e.sessionUnchanged(ctx, token) {
			logging.Info("Session ended during sync cycle, stopping", "remaining", len(records)-result.Attempted)
			break
		}
		result.Attempted++
		if e.submitOne(ctx, token, rec) {
			result.Synced++
		} else {
			result.Failed++
		}
	}

	if result.Synced > 0 {
		if err := e.clock.SetLastSyncAt(context.WithoutCancel(ctx), e.now()); err != nil {
			logging.Error("Failed to store last sync time", "error", err.Error())
		}
	}
	e.refreshPending(ctx)
	e.metrics.SyncCycles.WithLabelValues("completed").Inc()

	if result.Attempted > 0 {
		logging.Info("Sync cycle finished",
			"attempted", result.Attempted,
			"synced", result.Synced,
			"failed", result.Failed,
		)
	}
	return result, nil
}

// submitOne sends one record and records the outcome. The request runs on a
// context detached from cancellation and bounded by the submit timeout, so a
// started submission is always either marked or recorded as failed.
func (e *SyncEngine) submitOne(ctx context.Context, token string, rec gormModels.DeviceCallRecord) bool {
	detached := context.WithoutCancel(ctx)
	sctx, cancel := context.WithTimeout(detached, e.submitTimeout)
	resp, err := e.submitter.SubmitCall(sctx, token, recordToRequest(rec))
	cancel()

	if err != nil {
		e.metrics.Submissions.WithLabelValues("failed").Inc()
		code := providers.ErrorCode(err)
		logFn := logging.Error
		if code == constants.ErrCodeStaffNotFound {
			logFn = logging.Warn
		}
		logFn("Call record submission failed",
			"local_id", rec.LocalID,
			"attempt", rec.AttemptCount+1,
			"code", code,
			"error", err.Error(),
		)
		if ferr := e.store.RecordFailure(detached, rec.LocalID, err.Error()); ferr != nil {
			logging.Error("Failed to record submission failure", "local_id", rec.LocalID, "error", ferr.Error())
		}
		return false
	}

	if err := e.store.MarkSynced(detached, []int64{rec.LocalID}); err != nil {
		// The server already holds the record; the next cycle resubmits and gets it back.
		e.metrics.Submissions.WithLabelValues("failed").Inc()
		logging.Error("Failed to mark record synced", "local_id", rec.LocalID, "error", err.Error())
		return false
	}
	e.metrics.Submissions.WithLabelValues("synced").Inc()
	if resp != nil {
		logging.Debug("Call record synced", "local_id", rec.LocalID, "remote_id", resp.ID)
	}
	return true
}

// sessionUnchanged reports whether the cycle's token is still the current one.
// Logout or invalidation mid-cycle stops further submissions.
func (e *SyncEngine) sessionUnchanged(ctx context.Context, token string) bool {
	current, err := e.tokens.CurrentSessionToken(ctx)
	if err != nil {
		logging.Warn("Failed to re-read session token", "error", err.Error())
		return false
	}
	return current == token
}

func (e *SyncEngine) refreshPending(ctx context.Context) {
	counts, err := e.store.CountByState(ctx)
	if err != nil {
		logging.Warn("Failed to count pending records", "error", err.Error())
		return
	}
	e.metrics.PendingRecords.Set(float64(counts[constants.SyncStatePending]))
}

// Status returns the pending and synced counts and the last successful sync time.
func (e *SyncEngine) Status(ctx context.Context) (*SyncStatus, error) {
	counts, err := e.store.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	last, err := e.clock.LastSyncAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("read last sync time: %w", err)
	}
	return &SyncStatus{
		Pending:    counts[constants.SyncStatePending],
		Synced:     counts[constants.SyncStateSynced],
		LastSyncAt: last,
	}, nil
}
