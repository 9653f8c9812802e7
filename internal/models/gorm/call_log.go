package gorm

import (
	"mepapp/calltrack/internal/constants"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// CallLog is the server-side store of record for a call.
// (device_call_id, staff_id) is the idempotency key; rows without a device
// call id never collide.
type CallLog struct {
	ID           string             `gorm:"column:id;primaryKey;type:uuid"`
	StaffID      string             `gorm:"column:staff_id;type:uuid;not null;index;uniqueIndex:idx_call_logs_device_call_staff,priority:2"`
	JobID        *string            `gorm:"column:job_id;type:uuid;index"`
	PhoneNumber  string             `gorm:"column:phone_number;not null;index"`
	Duration     int64              `gorm:"column:duration;not null;default:0"`
	CallType     constants.CallType `gorm:"column:call_type;type:varchar(16);not null"`
	ContactName  *string            `gorm:"column:contact_name"`
	Timestamp    time.Time          `gorm:"column:timestamp;not null"`
	DeviceCallID *string            `gorm:"column:device_call_id;uniqueIndex:idx_call_logs_device_call_staff,priority:1"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (CallLog) TableName() string {
	return "call_logs"
}

func (c *CallLog) BeforeCreate(tx *gormlib.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
