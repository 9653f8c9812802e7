package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
	"mepapp/calltrack/internal/models/dtos"
)

const dedupeJobName = "call_log_dedupe"

// ErrJobRunning is returned when a run is requested while one is in progress.
var ErrJobRunning = errors.New("job already running")

type UnkeyedDeduper interface {
	DedupeUnkeyed(ctx context.Context) (*dtos.DedupeResponse, error)
}

// CallLogDedupeJob removes exact duplicates among call logs that carry no device call id.
type CallLogDedupeJob struct {
	deduper  UnkeyedDeduper
	metrics  *metrics.MetricsRegistry
	interval time.Duration

	mu     sync.Mutex
	status dtos.JobStatus
}

// NewCallLogDedupeJob creates the job. A zero interval disables scheduled runs.
func NewCallLogDedupeJob(deduper UnkeyedDeduper, interval time.Duration, m *metrics.MetricsRegistry) *CallLogDedupeJob {
	return &CallLogDedupeJob{
		deduper:  deduper,
		metrics:  m,
		interval: interval,
		status: dtos.JobStatus{
			Name:     dedupeJobName,
			Interval: interval.String(),
		},
	}
}

// Run executes one pass. Manual triggers and the schedule share it.
func (j *CallLogDedupeJob) Run(ctx context.Context) (*dtos.DedupeResponse, error) {
	j.mu.Lock()
	if j.status.Running {
		j.mu.Unlock()
		return nil, ErrJobRunning
	}
	j.status.Running = true
	j.mu.Unlock()

	start := time.Now()
	res, err := j.deduper.DedupeUnkeyed(ctx)
	elapsed := time.Since(start)

	if j.metrics != nil {
		j.metrics.SyncJobDuration.WithLabelValues(dedupeJobName).Observe(elapsed.Seconds())
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.status.Running = false
	j.status.LastRunAt = &start
	if err != nil {
		j.status.LastError = err.Error()
		return nil, fmt.Errorf("%s: %w", dedupeJobName, err)
	}
	j.status.LastError = ""
	j.status.LastResult = res

	logging.Info("Call log dedupe completed",
		"groups", res.GroupsFound,
		"removed", res.Removed,
		"duration", elapsed.Truncate(time.Millisecond).String(),
	)
	return res, nil
}

// Status returns a snapshot of the last run.
func (j *CallLogDedupeJob) Status() dtos.JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// RunScheduled runs the pass every interval until ctx is done.
func (j *CallLogDedupeJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil && !errors.Is(err, ErrJobRunning) {
				logging.Error("Scheduled call log dedupe failed", "error", err.Error())
			}
		case <-ctx.Done():
			logging.Info("Shutting down call log dedupe schedule")
			return
		}
	}
}
