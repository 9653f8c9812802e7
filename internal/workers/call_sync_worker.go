package workers

import (
	"context"
	"time"

	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/services"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) (*services.CycleResult, error)
}

// CallSyncWorker is the fast sync loop. It runs a cycle immediately and then every interval.
type CallSyncWorker struct {
	engine   CycleRunner
	interval time.Duration
}

func NewCallSyncWorker(engine CycleRunner, interval time.Duration) *CallSyncWorker {
	return &CallSyncWorker{engine: engine, interval: interval}
}

// Serve implements suture.Service.
func (w *CallSyncWorker) Serve(ctx context.Context) error {
	logging.Info("Starting call sync worker", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Shutting down call sync worker")
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CallSyncWorker) runOnce(ctx context.Context) {
	res, err := w.engine.RunCycle(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Error("Sync cycle failed", "error", err.Error())
		return
	}
	if !res.Submitted {
		logging.Debug("Sync cycle skipped submission", "reason", res.SkipReason)
	}
}

func (w *CallSyncWorker) String() string {
	return "call-sync-worker"
}
