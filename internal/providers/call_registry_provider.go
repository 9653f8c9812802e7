package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

// NativeCall is one row of the device's native call registry.
// Field semantics follow android.provider.CallLog.Calls.
type NativeCall struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Type       int    `json:"type"`
	DateMillis int64  `json:"date"`
	Duration   int64  `json:"duration"`
	CachedName string `json:"cachedName"`
}

// OccurredAt converts the epoch-millis date column.
func (c NativeCall) OccurredAt() time.Time {
	return time.UnixMilli(c.DateMillis)
}

// CallRegistry reads the device's native call registry.
type CallRegistry interface {
	// Query returns every call at or after since, most recent first.
	Query(ctx context.Context, since time.Time) ([]NativeCall, error)
}

// FileCallRegistry reads a JSON export of the native call registry.
// A missing file means the registry is empty.
type FileCallRegistry struct {
	Path string
}

func NewFileCallRegistry(path string) *FileCallRegistry {
	return &FileCallRegistry{Path: path}
}

func (r *FileCallRegistry) Query(ctx context.Context, since time.Time) ([]NativeCall, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read call registry %s: %w", r.Path, err)
	}

	var all []NativeCall
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode call registry %s: %w", r.Path, err)
	}

	sinceMillis := since.UnixMilli()
	calls := make([]NativeCall, 0, len(all))
	for _, c := range all {
		if since.IsZero() || c.DateMillis >= sinceMillis {
			calls = append(calls, c)
		}
	}
	sort.SliceStable(calls, func(i, j int) bool {
		return calls[i].DateMillis > calls[j].DateMillis
	})
	return calls, nil
}
