package routes

import (
	"mepapp/calltrack/internal/api"
	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers the call log API
func RegisterAPIRoutes(r chi.Router, cfg *config.ServerConfig, handlers *api.Handlers, jobsHandler *api.JobsHandler) {
	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	r.Get("/api/call-logs/ping", api.PingHandler())

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret)))
		authed.Use(limiter.Middleware)

		authed.Get("/api/auth/me", handlers.WhoAmI())

		authed.Route("/api/call-logs", func(calls chi.Router) {
			calls.Post("/", handlers.SubmitCallLog())
			calls.Post("/batch", handlers.SubmitCallLogBatch())
			calls.Get("/staff/{staffId}", handlers.ListCallLogsByStaff())
			calls.Get("/job/{jobId}", handlers.ListCallLogsByJob())

			// Admin-only group
			calls.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())
				admin.Get("/", handlers.ListCallLogs())
				admin.Get("/contacts", handlers.ContactSummary())
				admin.Delete("/cleanup-duplicates", handlers.ResetCallLogs())
				admin.Post("/dedupe", jobsHandler.TriggerDedupe())
			})
		})

		authed.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())
			admin.Get("/api/admin/jobs/status", jobsHandler.GetJobStatus())
		})
	})
}
