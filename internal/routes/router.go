package routes

import (
	"net/http"
	"time"

	"mepapp/calltrack/internal/api"
	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the call log server's router
func RegisterRoutes(cfg *config.ServerConfig, deps *api.Dependencies, jobsHandler *api.JobsHandler, sqlxDB *sqlx.DB, gatherer prometheus.Gatherer, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	if cfg.AppEnv != "production" {
		r.Use(middleware.DebugLogging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check; the Redis cache is pinged when it backs the staff cache
	var cachePinger api.Pinger
	if p, ok := deps.Services.Cache.(api.Pinger); ok {
		cachePinger = p
	}
	r.Get("/healthCheck", api.HealthCheckHandler(sqlxDB, cachePinger, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	handlers := api.NewHandlers(deps)
	RegisterAPIRoutes(r, cfg, handlers, jobsHandler)

	return r
}
