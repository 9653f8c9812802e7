package jobs

import (
	"context"
	"time"

	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/services"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) (*services.CycleResult, error)
}

// FallbackSyncJob runs a sync cycle on a slow schedule in case the fast worker is not running.
// It joins an in-flight cycle rather than starting a second one.
type FallbackSyncJob struct {
	engine   CycleRunner
	interval time.Duration
}

func NewFallbackSyncJob(engine CycleRunner, interval time.Duration) *FallbackSyncJob {
	return &FallbackSyncJob{engine: engine, interval: interval}
}

// Serve implements suture.Service. The first run happens after one interval.
func (j *FallbackSyncJob) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.runOnce(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (j *FallbackSyncJob) runOnce(ctx context.Context) {
	res, err := j.engine.RunCycle(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Error("Fallback sync cycle failed", "error", err.Error())
		return
	}
	if res.Submitted {
		logging.Info("Fallback sync cycle finished",
			"attempted", res.Attempted,
			"synced", res.Synced,
			"failed", res.Failed,
			"shared", res.Shared,
		)
	}
}

func (j *FallbackSyncJob) String() string {
	return "fallback-sync-job"
}
