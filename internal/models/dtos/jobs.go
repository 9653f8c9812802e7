package dtos

import "time"

// JobStatus describes the last run of a background job.
type JobStatus struct {
	Name       string     `json:"name"`
	Interval   string     `json:"interval"`
	LastRunAt  *time.Time `json:"lastRunAt,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
	LastResult any        `json:"lastResult,omitempty"`
	Running    bool       `json:"running"`
}
