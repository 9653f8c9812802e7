package dtos

import "time"

// SyncStatusResponse is served by the agent status endpoint.
type SyncStatusResponse struct {
	StaffID      string     `json:"staff_id,omitempty"`
	LoggedIn     bool       `json:"logged_in"`
	Pending      int64      `json:"pending"`
	Synced       int64      `json:"synced"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	BreakerState string     `json:"breaker_state"`
}

// SessionRequest seeds the device session.
type SessionRequest struct {
	StaffID string `json:"staff_id" validate:"required"`
	Token   string `json:"token" validate:"required"`
}
