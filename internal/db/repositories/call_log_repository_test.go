package repositories

import (
	"context"
	"testing"
	"time"

	"mepapp/calltrack/internal/constants"
	gormModels "mepapp/calltrack/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func newCallLog(staffID string, deviceCallID *string, ts time.Time) *gormModels.CallLog {
	return &gormModels.CallLog{
		StaffID:      staffID,
		PhoneNumber:  "+15550100",
		Duration:     30,
		CallType:     constants.CallTypeIncoming,
		Timestamp:    ts,
		DeviceCallID: deviceCallID,
	}
}

func TestCallLogRepo_Create_ConflictReturnsNotCreated(t *testing.T) {
	repo := NewCallLogRepo(setupServerDB(t))
	ctx := context.Background()
	staff := uuid.New().String()

	created, err := repo.Create(ctx, newCallLog(staff, strPtr("55"), time.Now()))
	if err != nil || !created {
		t.Fatalf("Expected first create, got created=%v err=%v", created, err)
	}

	created, err = repo.Create(ctx, newCallLog(staff, strPtr("55"), time.Now()))
	if err != nil {
		t.Fatalf("Expected no error on conflict, got %v", err)
	}
	if created {
		t.Error("Expected created=false on conflict")
	}

	all, _ := repo.ListAll(ctx)
	if len(all) != 1 {
		t.Errorf("Expected 1 row, got %d", len(all))
	}
}

func TestCallLogRepo_Create_SameDeviceIDDifferentStaff(t *testing.T) {
	repo := NewCallLogRepo(setupServerDB(t))
	ctx := context.Background()

	for _, staff := range []string{uuid.New().String(), uuid.New().String()} {
		created, err := repo.Create(ctx, newCallLog(staff, strPtr("55"), time.Now()))
		if err != nil || !created {
			t.Fatalf("Expected create for staff %s, got created=%v err=%v", staff, created, err)
		}
	}
}

func TestCallLogRepo_Create_NullDeviceIDNeverConflicts(t *testing.T) {
	repo := NewCallLogRepo(setupServerDB(t))
	ctx := context.Background()
	staff := uuid.New().String()
	ts := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		created, err := repo.Create(ctx, newCallLog(staff, nil, ts))
		if err != nil || !created {
			t.Fatalf("Expected create %d, got created=%v err=%v", i, created, err)
		}
	}
}

func TestCallLogRepo_FindByDeviceCallID(t *testing.T) {
	repo := NewCallLogRepo(setupServerDB(t))
	ctx := context.Background()
	staff := uuid.New().String()

	log := newCallLog(staff, strPtr("77"), time.Now())
	if _, err := repo.Create(ctx, log); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByDeviceCallID(ctx, "77", staff)
	if err != nil || found == nil {
		t.Fatalf("Expected record, got %v err=%v", found, err)
	}
	if found.ID != log.ID {
		t.Errorf("Expected id %s, got %s", log.ID, found.ID)
	}

	found, err = repo.FindByDeviceCallID(ctx, "77", uuid.New().String())
	if err != nil || found != nil {
		t.Errorf("Expected nil for other staff, got %v err=%v", found, err)
	}
}

func TestCallLogRepo_ListByStaffAndJob(t *testing.T) {
	repo := NewCallLogRepo(setupServerDB(t))
	ctx := context.Background()
	staffA, staffB := uuid.New().String(), uuid.New().String()
	job := uuid.New().String()

	withJob := newCallLog(staffA, strPtr("1"), time.Now())
	withJob.JobID = &job
	_, _ = repo.Create(ctx, withJob)
	_, _ = repo.Create(ctx, newCallLog(staffA, strPtr("2"), time.Now()))
	_, _ = repo.Create(ctx, newCallLog(staffB, strPtr("3"), time.Now()))

	byStaff, err := repo.ListByStaff(ctx, staffA)
	if err != nil || len(byStaff) != 2 {
		t.Errorf("Expected 2 rows for staff A, got %d err=%v", len(byStaff), err)
	}
	byJob, err := repo.ListByJob(ctx, job)
	if err != nil || len(byJob) != 1 {
		t.Errorf("Expected 1 row for job, got %d err=%v", len(byJob), err)
	}
}

func TestCallLogRepo_DeleteAll(t *testing.T) {
	repo := NewCallLogRepo(setupServerDB(t))
	ctx := context.Background()
	staff := uuid.New().String()

	_, _ = repo.Create(ctx, newCallLog(staff, strPtr("1"), time.Now()))
	_, _ = repo.Create(ctx, newCallLog(staff, nil, time.Now()))

	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}
}

func TestCallLogRepo_DeleteUnkeyedDuplicates_KeepsEarliest(t *testing.T) {
	repo := NewCallLogRepo(setupServerDB(t))
	ctx := context.Background()
	staff := uuid.New().String()
	ts := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

	first := newCallLog(staff, nil, ts)
	_, _ = repo.Create(ctx, first)
	_, _ = repo.Create(ctx, newCallLog(staff, nil, ts))
	_, _ = repo.Create(ctx, newCallLog(staff, nil, ts))
	// Different duration: not a duplicate.
	other := newCallLog(staff, nil, ts)
	other.Duration = 99
	_, _ = repo.Create(ctx, other)
	// Keyed rows are never touched.
	_, _ = repo.Create(ctx, newCallLog(staff, strPtr("k"), ts))

	groups, removed, err := repo.DeleteUnkeyedDuplicates(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if groups != 1 || removed != 2 {
		t.Errorf("Expected 1 group and 2 removed, got %d and %d", groups, removed)
	}

	all, _ := repo.ListAll(ctx)
	if len(all) != 3 {
		t.Fatalf("Expected 3 rows left, got %d", len(all))
	}
	var keptFirst bool
	for _, row := range all {
		if row.ID == first.ID {
			keptFirst = true
		}
	}
	if !keptFirst {
		t.Error("Expected the earliest duplicate to be kept")
	}
}

func TestContactSummaryRepo_ListRows(t *testing.T) {
	db := setupServerDB(t)
	ctx := context.Background()

	users := NewUserRepo(db)
	staff := &gormModels.User{Name: "Asha", Phone: "+15550001", Role: constants.RoleStaff}
	if err := users.Create(ctx, staff); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}

	calls := NewCallLogRepo(db)
	_, _ = calls.Create(ctx, newCallLog(staff.ID, strPtr("1"), time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)))
	_, _ = calls.Create(ctx, newCallLog(staff.ID, strPtr("2"), time.Date(2025, 9, 2, 9, 0, 0, 0, time.UTC)))

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	repo := NewContactSummaryRepo(sqlx.NewDb(sqlDB, "sqlite3"))

	rows, err := repo.ListRows(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].StaffName == nil || *rows[0].StaffName != "Asha" {
		t.Errorf("Expected staff name Asha, got %v", rows[0].StaffName)
	}
	if !rows[0].Timestamp.After(rows[1].Timestamp) {
		t.Errorf("Expected newest first, got %s then %s", rows[0].Timestamp, rows[1].Timestamp)
	}
}

func TestUserRepo_FindByID_NotFound(t *testing.T) {
	repo := NewUserRepo(setupServerDB(t))

	user, err := repo.FindByID(context.Background(), uuid.New().String())
	if err != nil || user != nil {
		t.Errorf("Expected nil, nil, got %v, %v", user, err)
	}
}
