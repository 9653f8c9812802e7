package jobs

import (
	"context"

	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
)

// InitializeJobs creates the server's background jobs and starts their schedules
func InitializeJobs(ctx context.Context, cfg config.DedupeConfig, deduper UnkeyedDeduper, m *metrics.MetricsRegistry) *CallLogDedupeJob {
	dedupeJob := NewCallLogDedupeJob(deduper, cfg.Interval, m)

	if cfg.Interval > 0 {
		go dedupeJob.RunScheduled(ctx, cfg.Interval)
	} else {
		logging.Info("Scheduled call log dedupe disabled")
	}

	return dedupeJob
}
