package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Code         string `json:"code,omitempty"`
	Data         any    `json:"data,omitempty"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}

// WhoAmIResponse is returned by GET /api/auth/me.
type WhoAmIResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// PingResponse is returned by GET /api/call-logs/ping.
type PingResponse struct {
	Status string `json:"status"`
}

// ResetResponse is returned by the administrative delete-all endpoint.
type ResetResponse struct {
	Status       string `json:"status"`
	TotalDeleted int64  `json:"totalDeleted"`
	Message      string `json:"message"`
}

// DedupeResponse is returned by the unkeyed-duplicate cleanup pass.
type DedupeResponse struct {
	GroupsFound int   `json:"groupsFound"`
	Removed     int64 `json:"removed"`
}
