package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mepapp/calltrack/internal/api"
	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/db"
	"mepapp/calltrack/internal/jobs"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
	gormModels "mepapp/calltrack/internal/models/gorm"
	"mepapp/calltrack/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Calltrack API
// @version 1.0
// @description Store of record for call logs captured on staff devices.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Calltrack server starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with GORM
	orm, err := db.InitServerORM(cfg.Database, gormModels.ServerModels()...)
	if err != nil {
		logging.Fatal("Failed to connect to database (GORM)", "error", err.Error())
	}

	// Connect to DB with sqlx
	sqlxDB, err := db.InitSQLX(cfg.Database, orm)
	if err != nil {
		logging.Fatal("Failed to connect to database (sqlx)", "error", err.Error())
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsReg := metrics.NewMetricsRegistry(promRegistry)

	deps, err := api.InitDependencies(cfg, orm, sqlxDB, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dedupeJob := jobs.InitializeJobs(ctx, cfg.Dedupe, deps.Services.CallLogs, metricsReg)

	upSince := time.Now()
	router := routes.RegisterRoutes(cfg, deps, api.NewJobsHandler(dedupeJob), sqlxDB, promRegistry, upSince)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.HTTP.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := sqlxDB.Close(); err != nil {
		logging.Error("Failed to close database", "error", err.Error())
	}
}
