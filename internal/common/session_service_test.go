package common

import (
	"context"
	"sync"
	"testing"
)

type memorySettings struct {
	mu   sync.Mutex
	vals map[string]string
}

func newMemorySettings() *memorySettings {
	return &memorySettings{vals: map[string]string{}}
}

func (m *memorySettings) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

func (m *memorySettings) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}

func (m *memorySettings) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.vals, k)
	}
	return nil
}

func TestDeviceSession_LoginInvalidateLogout(t *testing.T) {
	session := NewDeviceSession(newMemorySettings())
	ctx := context.Background()

	if err := session.Login(ctx, " staff-1 ", "token-1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	staff, _ := session.CurrentStaffID(ctx)
	token, _ := session.CurrentSessionToken(ctx)
	if staff != "staff-1" || token != "token-1" {
		t.Fatalf("Expected staff-1/token-1, got %q/%q", staff, token)
	}

	if err := session.InvalidateSession(ctx); err != nil {
		t.Fatalf("InvalidateSession failed: %v", err)
	}
	staff, _ = session.CurrentStaffID(ctx)
	token, _ = session.CurrentSessionToken(ctx)
	if staff != "staff-1" {
		t.Errorf("Expected staff id to survive invalidation, got %q", staff)
	}
	if token != "" {
		t.Errorf("Expected token cleared, got %q", token)
	}

	if err := session.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	staff, _ = session.CurrentStaffID(ctx)
	if staff != "" {
		t.Errorf("Expected staff id cleared by logout, got %q", staff)
	}
}

func TestDeviceSession_Login_RequiresBoth(t *testing.T) {
	session := NewDeviceSession(newMemorySettings())

	if err := session.Login(context.Background(), "staff-1", "  "); err == nil {
		t.Error("Expected error for blank token")
	}
}

func TestCacheService_GetOrSet_DoesNotCacheErrors(t *testing.T) {
	cache := NewCacheService(0, 0)
	calls := 0
	loader := func() (any, error) {
		calls++
		if calls == 1 {
			return nil, context.DeadlineExceeded
		}
		return "Asha", nil
	}

	if _, err := cache.GetOrSet("STAFF_1", 0, loader); err == nil {
		t.Fatal("Expected loader error on first call")
	}
	val, err := cache.GetOrSet("STAFF_1", 0, loader)
	if err != nil || val != "Asha" {
		t.Fatalf("Expected Asha, got %v err=%v", val, err)
	}
	if _, err := cache.GetOrSet("STAFF_1", 0, loader); err != nil {
		t.Fatalf("Expected cached value, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected loader to run twice, got %d", calls)
	}
}
