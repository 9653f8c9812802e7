package workers

import (
	"context"
	"time"

	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/services"
)

type SessionProber interface {
	Probe(ctx context.Context) (services.ProbeOutcome, error)
}

// HealthProbeWorker probes the session token at a fixed interval.
type HealthProbeWorker struct {
	prober   SessionProber
	interval time.Duration
}

func NewHealthProbeWorker(prober SessionProber, interval time.Duration) *HealthProbeWorker {
	return &HealthProbeWorker{prober: prober, interval: interval}
}

// Serve implements suture.Service.
func (w *HealthProbeWorker) Serve(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			outcome, err := w.prober.Probe(ctx)
			if err != nil {
				logging.Warn("Session health probe failed", "outcome", string(outcome), "error", err.Error())
			}
		}
	}
}

func (w *HealthProbeWorker) String() string {
	return "health-probe-worker"
}
