package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/db"
	"mepapp/calltrack/internal/db/repositories"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
	gormModels "mepapp/calltrack/internal/models/gorm"
	"mepapp/calltrack/internal/providers"
	"mepapp/calltrack/internal/routes"
	"mepapp/calltrack/internal/services"
	"mepapp/calltrack/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.LoadAgent()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	store, err := db.InitDeviceStore(cfg.Store.Path, gormModels.DeviceModels()...)
	if err != nil {
		logging.Fatal("Failed to open device store", "error", err.Error())
	}

	records := repositories.NewDeviceCallRecordRepo(store)
	settings := repositories.NewDeviceSettingsRepo(store)
	session := common.NewDeviceSession(settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Session.Token != "" {
		if err := session.Login(ctx, cfg.Session.StaffID, cfg.Session.Token); err != nil {
			logging.Fatal("Failed to seed device session", "error", err.Error())
		}
		logging.Info("Device session seeded from configuration", "staff_id", cfg.Session.StaffID)
	}

	cutoff, err := cfg.Capture.CutoffTime()
	if err != nil {
		logging.Fatal("Invalid capture cutoff", "error", err.Error())
	}
	reachAddr, err := cfg.ReachabilityAddress()
	if err != nil {
		logging.Fatal("Invalid reachability address", "error", err.Error())
	}

	promRegistry := prometheus.NewRegistry()
	agentMetrics := metrics.NewAgentMetrics(promRegistry)

	remote := providers.NewRemoteAPIProvider(cfg.API.BaseURL, cfg.API.RequestTimeout)
	registry := providers.NewFileCallRegistry(cfg.Registry.Path)

	reader := services.NewCallSourceReader(registry, session, services.CaptureWindow{
		Cutoff:   cutoff,
		Lookback: cfg.Capture.Lookback,
	})
	capture := services.NewCallCaptureService(reader, services.NewDedupGate(records), records, agentMetrics)
	gate := services.NewConnectivityGate(services.NewDialReachability(reachAddr, cfg.Reachability.Timeout), session)
	engine := services.NewSyncEngine(capture, records, settings, gate, session, remote, cfg.Sync.SubmitTimeout, agentMetrics)
	engine.Bind(ctx)

	monitor := services.NewHealthMonitor(remote, session, services.HealthSettings{
		FailureThreshold: cfg.Health.FailureThreshold,
		OpenTimeout:      cfg.Health.OpenTimeout,
		ProbeTimeout:     cfg.Health.ProbeTimeout,
	}, agentMetrics)

	statusHandler := routes.RegisterAgentRoutes(engine, session, monitor, promRegistry)
	supervisor := workers.InitWorkers(cfg, engine, monitor, statusHandler)

	logging.Info("Calltrack agent starting",
		"environment", cfg.AppEnv,
		"api", cfg.API.BaseURL,
		"store", cfg.Store.Path,
	)

	if err := supervisor.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error("Supervisor stopped", "error", err.Error())
	}
	logging.Info("Calltrack agent stopped")
}
