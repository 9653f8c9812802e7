package gorm

import (
	"mepapp/calltrack/internal/constants"
	"time"
)

// DeviceCallRecord is a call captured on the device, pending or synced.
type DeviceCallRecord struct {
	LocalID         int64               `gorm:"column:local_id;primaryKey;autoIncrement"`
	DeviceCallID    *string             `gorm:"column:device_call_id;uniqueIndex"`
	PhoneNumber     string              `gorm:"column:phone_number;not null"`
	CallType        constants.CallType  `gorm:"column:call_type;not null"`
	DurationSeconds int64               `gorm:"column:duration_seconds;not null;default:0"`
	ContactName     *string             `gorm:"column:contact_name"`
	OccurredAt      time.Time           `gorm:"column:occurred_at;not null"`
	StaffID         string              `gorm:"column:staff_id;not null"`
	SyncState       constants.SyncState `gorm:"column:sync_state;not null;default:PENDING;index"`
	AttemptCount    int                 `gorm:"column:attempt_count;not null;default:0"`
	LastError       *string             `gorm:"column:last_error"`
	SyncedAt        *time.Time          `gorm:"column:synced_at"`
	CapturedAt      time.Time           `gorm:"column:captured_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (DeviceCallRecord) TableName() string {
	return "device_call_records"
}

// DeviceSetting is a key/value row of durable device state.
type DeviceSetting struct {
	Key       string    `gorm:"column:setting_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (DeviceSetting) TableName() string {
	return "device_settings"
}

// ServerModels are migrated by cmd/server.
func ServerModels() []interface{} {
	return []interface{}{&User{}, &Job{}, &CallLog{}}
}

// DeviceModels are migrated by cmd/agent.
func DeviceModels() []interface{} {
	return []interface{}{&DeviceCallRecord{}, &DeviceSetting{}}
}
