package repositories

import (
	"testing"

	gormModels "mepapp/calltrack/internal/models/gorm"

	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T, models ...interface{}) *gormlib.DB {
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// One connection keeps the in-memory database alive across queries
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

func setupDeviceDB(t *testing.T) *gormlib.DB {
	return setupTestDB(t, gormModels.DeviceModels()...)
}

func setupServerDB(t *testing.T) *gormlib.DB {
	return setupTestDB(t, gormModels.ServerModels()...)
}

func strPtr(s string) *string { return &s }
