package gorm

import (
	"mepapp/calltrack/internal/constants"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Job is owned by the job lifecycle service; call logging only resolves it by id.
type Job struct {
	ID           string              `gorm:"column:id;primaryKey;type:uuid"`
	StaffID      *string             `gorm:"column:staff_id;type:uuid;index"`
	CustomerName string              `gorm:"column:customer_name"`
	ServiceType  string              `gorm:"column:service_type"`
	Status       constants.JobStatus `gorm:"column:status;type:varchar(16);not null;default:NEW"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gormlib.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}
