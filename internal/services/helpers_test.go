package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/db/repositories"
	"mepapp/calltrack/internal/metrics"
	"mepapp/calltrack/internal/models/dtos"
	gormModels "mepapp/calltrack/internal/models/gorm"
	"mepapp/calltrack/internal/providers"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

// Mock CallRegistry
type mockRegistry struct {
	queryFunc func(ctx context.Context, since time.Time) ([]providers.NativeCall, error)
}

func (m *mockRegistry) Query(ctx context.Context, since time.Time) ([]providers.NativeCall, error) {
	return m.queryFunc(ctx, since)
}

func staticRegistry(calls ...providers.NativeCall) *mockRegistry {
	return &mockRegistry{
		queryFunc: func(ctx context.Context, since time.Time) ([]providers.NativeCall, error) {
			return calls, nil
		},
	}
}

// Mock CallSubmitter
type mockSubmitter struct {
	mu         sync.Mutex
	calls      []dtos.CallLogRequest
	submitFunc func(ctx context.Context, token string, req dtos.CallLogRequest) (*dtos.CallLogResponse, error)
}

func (m *mockSubmitter) SubmitCall(ctx context.Context, token string, req dtos.CallLogRequest) (*dtos.CallLogResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.submitFunc == nil {
		return &dtos.CallLogResponse{ID: "remote-" + req.PhoneNumber}, nil
	}
	return m.submitFunc(ctx, token, req)
}

func (m *mockSubmitter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Mock Reachability
type mockReachability struct {
	online atomic.Bool
}

func (m *mockReachability) Online(ctx context.Context) bool {
	return m.online.Load()
}

func reachable(online bool) *mockReachability {
	r := &mockReachability{}
	r.online.Store(online)
	return r
}

// deviceFixture wires the agent side against an in-memory store.
type deviceFixture struct {
	records   *repositories.DeviceCallRecordRepo
	settings  *repositories.DeviceSettingsRepo
	session   *common.DeviceSession
	metrics   *metrics.AgentMetrics
	reach     *mockReachability
	submitter *mockSubmitter
	engine    *SyncEngine
}

func newDeviceFixture(t *testing.T, registry providers.CallRegistry) *deviceFixture {
	t.Helper()
	db := setupTestDB(t, gormModels.DeviceModels()...)

	f := &deviceFixture{
		records:   repositories.NewDeviceCallRecordRepo(db),
		settings:  repositories.NewDeviceSettingsRepo(db),
		metrics:   metrics.NewAgentMetrics(prometheus.NewRegistry()),
		reach:     reachable(true),
		submitter: &mockSubmitter{},
	}
	f.session = common.NewDeviceSession(f.settings)

	reader := NewCallSourceReader(registry, f.session, CaptureWindow{})
	capture := NewCallCaptureService(reader, NewDedupGate(f.records), f.records, f.metrics)
	gate := NewConnectivityGate(f.reach, f.session)
	f.engine = NewSyncEngine(capture, f.records, f.settings, gate, f.session, f.submitter, time.Second, f.metrics)
	return f
}

func (f *deviceFixture) login(t *testing.T) {
	t.Helper()
	if err := f.session.Login(context.Background(), "staff-1", "token-1"); err != nil {
		t.Fatalf("Failed to login: %v", err)
	}
}

func nativeCall(id string, number string, at time.Time) providers.NativeCall {
	return providers.NativeCall{
		ID:         id,
		Number:     number,
		Type:       2,
		DateMillis: at.UnixMilli(),
		Duration:   30,
	}
}
