package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	secret := []byte("test-secret")
	valid, err := auth.IssueToken(secret, "staff-1", constants.RoleStaff, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	var seen auth.UserClaims
	handler := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetUserClaims(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}

	if seen == nil || seen.UserID() != "staff-1" {
		t.Errorf("Expected claims for staff-1, got %v", seen)
	}
}

func TestIsAdminMiddleware(t *testing.T) {
	handler := IsAdminMiddleware()(okHandler)

	tests := []struct {
		name   string
		claims auth.UserClaims
		want   int
	}{
		{"no claims", nil, http.StatusForbidden},
		{"staff", &auth.JWTClaims{StaffUUID: "s", RoleValue: constants.RoleStaff}, http.StatusForbidden},
		{"admin", &auth.JWTClaims{StaffUUID: "a", RoleValue: constants.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/call-logs", nil)
			if tt.claims != nil {
				req = req.WithContext(auth.SetUserClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2, Whitelist: []string{"10.0.0.9"}})
	handler := limiter.Middleware(okHandler)

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/call-logs", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("Expected request %d within burst, got %d", i+1, code)
		}
	}
	if code := send("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst, got %d", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("Expected separate bucket per caller, got %d", code)
	}
	for i := 0; i < 5; i++ {
		if code := send("10.0.0.9:1234"); code != http.StatusOK {
			t.Fatalf("Expected whitelisted caller to pass, got %d", code)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "abc" || rec.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("Expected request id to be propagated, got %q", seen)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "abc" {
		t.Errorf("Expected a generated request id, got %q", seen)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	got := NormalizeEndpoint("/api/call-logs/staff/6f1c2a9e-3b4d-4c5e-8f70-112233445566")
	if got != "/api/call-logs/staff/{id}" {
		t.Errorf("Unexpected normalized path %s", got)
	}
	if got := NormalizeEndpoint("/api/call-logs/ping"); got != "/api/call-logs/ping" {
		t.Errorf("Unexpected normalized path %s", got)
	}
}

func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(MetricsMiddleware(reg))
	r.Get("/api/call-logs/staff/{staffId}", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/call-logs/staff/abc", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	got := testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("/api/call-logs/staff/{staffId}", http.MethodGet, "200"))
	if got != 1 {
		t.Errorf("Expected 1 request recorded for the route pattern, got %v", got)
	}
}
