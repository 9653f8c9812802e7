package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/models/dtos"
)

func writeEnvelope(w http.ResponseWriter, status int, code string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := dtos.APIResponse{Status: "ok", Code: code, Data: data}
	if status >= 300 {
		resp.Status = "error"
		resp.Message = "failed"
	}
	json.NewEncoder(w).Encode(resp)
}

func TestRemoteAPIProvider_SubmitCall_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/api/call-logs" {
			t.Errorf("Expected path /api/call-logs, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected bearer token, got %q", got)
		}

		var req dtos.CallLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if req.DeviceCallID == nil || *req.DeviceCallID != "42" {
			t.Errorf("Expected phoneCallId 42, got %v", req.DeviceCallID)
		}

		writeEnvelope(w, http.StatusCreated, "", dtos.CallLogResponse{ID: "server-id", StaffID: req.StaffID})
	}))
	defer server.Close()

	provider := NewRemoteAPIProvider(server.URL, 5*time.Second)

	id := "42"
	resp, err := provider.SubmitCall(context.Background(), "test-token", dtos.CallLogRequest{
		StaffID:      "staff-1",
		PhoneNumber:  "+15550100",
		CallType:     "INCOMING",
		DeviceCallID: &id,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.ID != "server-id" {
		t.Errorf("Expected id server-id, got %s", resp.ID)
	}
}

func TestRemoteAPIProvider_SubmitCall_EmptyStaff(t *testing.T) {
	provider := NewRemoteAPIProvider("http://127.0.0.1:1", time.Second)

	_, err := provider.SubmitCall(context.Background(), "token", dtos.CallLogRequest{})
	if ErrorCode(err) != constants.ErrCodeInvalidRequest {
		t.Errorf("Expected %s, got %v", constants.ErrCodeInvalidRequest, err)
	}
}

func TestRemoteAPIProvider_SubmitCall_StaffNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, constants.ErrCodeStaffNotFound, nil)
	}))
	defer server.Close()

	provider := NewRemoteAPIProvider(server.URL, 5*time.Second)

	_, err := provider.SubmitCall(context.Background(), "token", dtos.CallLogRequest{StaffID: "ghost"})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if pe.Code != constants.ErrCodeStaffNotFound {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeStaffNotFound, pe.Code)
	}
	if pe.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", pe.Status)
	}
}

func TestRemoteAPIProvider_WhoAmI_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorized"))
	}))
	defer server.Close()

	provider := NewRemoteAPIProvider(server.URL, 5*time.Second)

	_, err := provider.WhoAmI(context.Background(), "expired")
	if ErrorCode(err) != constants.ErrCodeUnauthorized {
		t.Errorf("Expected %s, got %v", constants.ErrCodeUnauthorized, err)
	}
}

func TestRemoteAPIProvider_WhoAmI_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("Expected path /api/auth/me, got %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, "", dtos.WhoAmIResponse{ID: "staff-1", Role: "STAFF"})
	}))
	defer server.Close()

	provider := NewRemoteAPIProvider(server.URL+"/", 5*time.Second)

	me, err := provider.WhoAmI(context.Background(), "token")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if me.ID != "staff-1" {
		t.Errorf("Expected staff-1, got %s", me.ID)
	}
}

func TestRemoteAPIProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeEnvelope(w, http.StatusOK, "", nil)
	}))
	defer server.Close()

	provider := NewRemoteAPIProvider(server.URL, 20*time.Millisecond)

	err := provider.Ping(context.Background())
	if ErrorCode(err) != constants.ErrCodeNetworkError {
		t.Errorf("Expected %s on timeout, got %v", constants.ErrCodeNetworkError, err)
	}
}
