package routes

import (
	"net/http"

	"mepapp/calltrack/internal/api"
	"mepapp/calltrack/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAgentRoutes builds the agent's local status API
func RegisterAgentRoutes(engine api.SyncRunner, session api.SessionManager, health api.BreakerStateSource, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)

	r.Get("/status", api.SyncStatusHandler(engine, session, health))
	r.Post("/sync", api.SyncNowHandler(engine))
	r.Post("/session", api.SessionLoginHandler(session))
	r.Delete("/session", api.SessionLogoutHandler(session))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}
