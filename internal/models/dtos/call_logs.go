package dtos

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LocalTimestampLayout is the zone-less layout sent by older device builds.
const LocalTimestampLayout = "2006-01-02T15:04:05"

// LocalTimestamp accepts RFC3339 or the zone-less device layout.
// Zone-less values are read in TimestampLocation.
type LocalTimestamp struct {
	time.Time
}

// TimestampLocation is used for zone-less timestamps.
var TimestampLocation = time.Local

func (t *LocalTimestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(LocalTimestampLayout, s, TimestampLocation)
	if err != nil {
		return fmt.Errorf("timestamp %q: expected RFC3339 or %s", s, LocalTimestampLayout)
	}
	t.Time = parsed
	return nil
}

func (t LocalTimestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// CallLogRequest is the body of POST /api/call-logs and each element of the batch endpoint.
// phoneCallId carries the device call id.
type CallLogRequest struct {
	JobID        *string         `json:"jobId,omitempty"`
	StaffID      string          `json:"staffId" validate:"required"`
	PhoneNumber  string          `json:"phoneNumber" validate:"required"`
	Duration     int64           `json:"duration" validate:"gte=0"`
	CallType     string          `json:"callType"`
	ContactName  *string         `json:"contactName,omitempty"`
	Timestamp    *LocalTimestamp `json:"timestamp,omitempty"`
	DeviceCallID *string         `json:"phoneCallId,omitempty"`
}

type CallLogResponse struct {
	ID           string    `json:"id"`
	StaffID      string    `json:"staffId"`
	JobID        *string   `json:"jobId"`
	PhoneNumber  string    `json:"phoneNumber"`
	Duration     int64     `json:"duration"`
	CallType     string    `json:"callType"`
	ContactName  *string   `json:"contactName"`
	Timestamp    time.Time `json:"timestamp"`
	DeviceCallID *string   `json:"phoneCallId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BatchItemResult reports the outcome of one batch element.
type BatchItemResult struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Created bool   `json:"created"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ContactSummary aggregates every call made to or from one phone number.
type ContactSummary struct {
	PhoneNumber   string    `json:"phoneNumber"`
	ContactName   *string   `json:"contactName"`
	TotalCalls    int       `json:"totalCalls"`
	Incoming      int       `json:"incoming"`
	Outgoing      int       `json:"outgoing"`
	Missed        int       `json:"missed"`
	TotalDuration int64     `json:"totalDuration"`
	LastCallAt    time.Time `json:"lastCallAt"`
	LastCallType  string    `json:"lastCallType"`
	StaffName     *string   `json:"staffName"`
}
