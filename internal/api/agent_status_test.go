package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mepapp/calltrack/internal/models/dtos"
	"mepapp/calltrack/internal/services"
)

type mockSyncRunner struct {
	runCycleFunc func(ctx context.Context) (*services.CycleResult, error)
	statusFunc   func(ctx context.Context) (*services.SyncStatus, error)
}

func (m *mockSyncRunner) RunCycle(ctx context.Context) (*services.CycleResult, error) {
	return m.runCycleFunc(ctx)
}

func (m *mockSyncRunner) Status(ctx context.Context) (*services.SyncStatus, error) {
	return m.statusFunc(ctx)
}

// memSession is an in-memory SessionManager.
type memSession struct {
	staffID  string
	token    string
	loginErr error
}

func (s *memSession) CurrentStaffID(ctx context.Context) (string, error) { return s.staffID, nil }

func (s *memSession) CurrentSessionToken(ctx context.Context) (string, error) { return s.token, nil }

func (s *memSession) Login(ctx context.Context, staffID, token string) error {
	if s.loginErr != nil {
		return s.loginErr
	}
	s.staffID, s.token = staffID, token
	return nil
}

func (s *memSession) Logout(ctx context.Context) error {
	s.staffID, s.token = "", ""
	return nil
}

type fixedState string

func (f fixedState) State() string { return string(f) }

func TestSyncStatusHandler(t *testing.T) {
	last := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	engine := &mockSyncRunner{
		statusFunc: func(ctx context.Context) (*services.SyncStatus, error) {
			return &services.SyncStatus{Pending: 3, Synced: 7, LastSyncAt: &last}, nil
		},
	}
	session := &memSession{staffID: "staff-1"}

	rr := httptest.NewRecorder()
	SyncStatusHandler(engine, session, fixedState("open")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	_, data := decodeEnvelope(t, rr)
	var got dtos.SyncStatusResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if got.Pending != 3 || got.Synced != 7 || got.StaffID != "staff-1" {
		t.Errorf("Unexpected counts %+v", got)
	}
	// an invalidated session keeps the staff id but has no token
	if got.LoggedIn {
		t.Error("Expected logged_in false without a token")
	}
	if got.BreakerState != "open" {
		t.Errorf("Expected breaker state open, got %s", got.BreakerState)
	}
}

func TestSyncStatusHandler_StatusError(t *testing.T) {
	engine := &mockSyncRunner{
		statusFunc: func(ctx context.Context) (*services.SyncStatus, error) {
			return nil, errors.New("disk full")
		},
	}
	rr := httptest.NewRecorder()
	SyncStatusHandler(engine, &memSession{}, fixedState("closed")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
}

func TestSyncNowHandler(t *testing.T) {
	engine := &mockSyncRunner{
		runCycleFunc: func(ctx context.Context) (*services.CycleResult, error) {
			return &services.CycleResult{Submitted: true, Attempted: 2, Synced: 2}, nil
		},
	}
	rr := httptest.NewRecorder()
	SyncNowHandler(engine).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	_, data := decodeEnvelope(t, rr)
	var got services.CycleResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if got.Synced != 2 {
		t.Errorf("Expected 2 synced, got %d", got.Synced)
	}
}

func TestSessionHandlers(t *testing.T) {
	session := &memSession{}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"staff_id":"staff-1"}`))
	SessionLoginHandler(session).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a token, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"staff_id":"staff-1","token":"tok"}`))
	SessionLoginHandler(session).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if session.staffID != "staff-1" || session.token != "tok" {
		t.Errorf("Session not stored: %+v", session)
	}

	rr = httptest.NewRecorder()
	SessionLogoutHandler(session).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/session", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if session.staffID != "" || session.token != "" {
		t.Errorf("Expected session cleared, got %+v", session)
	}
}
