package workers

import (
	"net/http"
	"time"

	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/jobs"
	"mepapp/calltrack/internal/logging"

	"github.com/thejerf/suture/v4"
)

// InitWorkers builds the agent's supervisor. statusHandler may be nil when the status server is disabled.
func InitWorkers(cfg *config.AgentConfig, engine CycleRunner, prober SessionProber, statusHandler http.Handler) *suture.Supervisor {
	supervisor := suture.New("calltrack-agent", suture.Spec{
		EventHook:        supervisorEventHook(),
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})

	supervisor.Add(NewCallSyncWorker(engine, cfg.Sync.Interval))
	supervisor.Add(jobs.NewFallbackSyncJob(engine, cfg.Sync.FallbackInterval))
	supervisor.Add(NewHealthProbeWorker(prober, cfg.Health.ProbeInterval))

	if cfg.Status.Enabled && statusHandler != nil {
		supervisor.Add(NewStatusServer(cfg.Status.Addr, statusHandler))
	}

	return supervisor
}

// supervisorEventHook logs supervisor events through zap.
func supervisorEventHook() suture.EventHook {
	log := logging.WithComponent("supervisor")
	return func(e suture.Event) {
		fields := make([]interface{}, 0, 2*len(e.Map()))
		for k, v := range e.Map() {
			fields = append(fields, k, v)
		}
		switch e.Type() {
		case suture.EventTypeServicePanic, suture.EventTypeStopTimeout:
			log.Errorw(e.String(), fields...)
		case suture.EventTypeBackoff, suture.EventTypeServiceTerminate:
			log.Warnw(e.String(), fields...)
		default:
			log.Infow(e.String(), fields...)
		}
	}
}
