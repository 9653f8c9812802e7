package common

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/logging"
)

// SettingsStore is the durable key/value store behind the device session.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// DeviceSession holds the staff identity and bearer token of the device.
// Both survive process restarts. An empty string means "not set".
type DeviceSession struct {
	store SettingsStore
	mu    sync.Mutex
}

func NewDeviceSession(store SettingsStore) *DeviceSession {
	return &DeviceSession{store: store}
}

// CurrentStaffID returns the last known staff id, or "" when nobody ever logged in.
func (s *DeviceSession) CurrentStaffID(ctx context.Context) (string, error) {
	return s.get(ctx, constants.SettingStaffID)
}

// CurrentSessionToken returns the bearer token, or "" when logged out or invalidated.
func (s *DeviceSession) CurrentSessionToken(ctx context.Context) (string, error) {
	return s.get(ctx, constants.SettingToken)
}

func (s *DeviceSession) get(ctx context.Context, key string) (string, error) {
	val, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(val), nil
}

// Login stores a new identity and token.
func (s *DeviceSession) Login(ctx context.Context, staffID, token string) error {
	staffID, token = strings.TrimSpace(staffID), strings.TrimSpace(token)
	if staffID == "" || token == "" {
		return fmt.Errorf("staff id and token are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, constants.SettingStaffID, staffID); err != nil {
		return fmt.Errorf("store staff id: %w", err)
	}
	if err := s.store.Set(ctx, constants.SettingToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	logging.Info("Device session started", "staff_id", staffID)
	return nil
}

// InvalidateSession drops the token but keeps the staff id, so capture keeps
// running offline until the user logs in again.
func (s *DeviceSession) InvalidateSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, constants.SettingToken); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	logging.Warn("Device session invalidated")
	return nil
}

// Logout clears both the token and the staff id. Capture stops until the next login.
func (s *DeviceSession) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, constants.SettingToken, constants.SettingStaffID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logging.Info("Device session ended")
	return nil
}
