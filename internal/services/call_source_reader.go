package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	gormModels "mepapp/calltrack/internal/models/gorm"
	"mepapp/calltrack/internal/providers"
)

// StaffIdentity resolves the staff member the device currently belongs to.
type StaffIdentity interface {
	CurrentStaffID(ctx context.Context) (string, error)
}

// CaptureWindow bounds how far back the registry is read.
// Either field may be zero.
type CaptureWindow struct {
	Cutoff   time.Time
	Lookback time.Duration
}

// Since returns the later of the cutoff and now minus the lookback.
func (w CaptureWindow) Since(now time.Time) time.Time {
	since := w.Cutoff
	if w.Lookback > 0 {
		if rolling := now.Add(-w.Lookback); rolling.After(since) {
			since = rolling
		}
	}
	return since
}

// CallCandidate is a registry row normalized for storage, not yet deduplicated.
type CallCandidate struct {
	DeviceCallID    *string
	PhoneNumber     string
	CallType        constants.CallType
	DurationSeconds int64
	ContactName     *string
	OccurredAt      time.Time
	StaffID         string
}

// Record builds the PENDING store row for the candidate.
func (c CallCandidate) Record() *gormModels.DeviceCallRecord {
	return &gormModels.DeviceCallRecord{
		DeviceCallID:    c.DeviceCallID,
		PhoneNumber:     c.PhoneNumber,
		CallType:        c.CallType,
		DurationSeconds: c.DurationSeconds,
		ContactName:     c.ContactName,
		OccurredAt:      c.OccurredAt.UTC(),
		StaffID:         c.StaffID,
		SyncState:       constants.SyncStatePending,
	}
}

// CallSourceReader turns the native call registry into candidates for the current staff member.
type CallSourceReader struct {
	registry providers.CallRegistry
	identity StaffIdentity
	window   CaptureWindow
	now      func() time.Time
}

func NewCallSourceReader(registry providers.CallRegistry, identity StaffIdentity, window CaptureWindow) *CallSourceReader {
	return &CallSourceReader{
		registry: registry,
		identity: identity,
		window:   window,
		now:      time.Now,
	}
}

// ReadNewCalls returns the registry rows inside the capture window, most recent first.
// Without a known staff id nothing is read.
func (r *CallSourceReader) ReadNewCalls(ctx context.Context) ([]CallCandidate, error) {
	staffID, err := r.identity.CurrentStaffID(ctx)
	if err != nil {
		return nil, &CaptureError{Err: fmt.Errorf("resolve staff id: %w", err)}
	}
	if staffID == "" {
		return nil, nil
	}

	calls, err := r.registry.Query(ctx, r.window.Since(r.now()))
	if err != nil {
		return nil, &CaptureError{Err: err}
	}

	candidates := make([]CallCandidate, 0, len(calls))
	for _, call := range calls {
		candidates = append(candidates, toCandidate(call, staffID))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].OccurredAt.After(candidates[j].OccurredAt)
	})
	return candidates, nil
}

func toCandidate(call providers.NativeCall, staffID string) CallCandidate {
	number := strings.TrimSpace(call.Number)
	if number == "" {
		number = constants.UnknownPhoneNumber
	}
	duration := call.Duration
	if duration < 0 {
		duration = 0
	}
	return CallCandidate{
		DeviceCallID:    common.OptionalString(call.ID),
		PhoneNumber:     number,
		CallType:        constants.CallTypeFromNative(call.Type),
		DurationSeconds: duration,
		ContactName:     common.OptionalString(call.CachedName),
		OccurredAt:      call.OccurredAt(),
		StaffID:         staffID,
	}
}
