package middleware

import (
	"net/http"
	"time"

	"mepapp/calltrack/internal/logging"
)

// DebugLogging logs every request and its headers at debug level. Only mounted outside production.
func DebugLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.WithComponent("http-debug")

		headers := make(map[string]string, len(r.Header))
		for name := range r.Header {
			if name == "Authorization" {
				headers[name] = "[redacted]"
				continue
			}
			headers[name] = r.Header.Get(name)
		}
		logger.Debugw("Request received", "method", r.Method, "url", r.URL.String(), "headers", headers)

		lw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(lw, r)

		logger.Debugw("Response sent",
			"status", lw.statusCode,
			"status_text", http.StatusText(lw.statusCode),
			"duration", time.Since(start).String(),
		)
	})
}
