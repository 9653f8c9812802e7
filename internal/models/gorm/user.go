package gorm

import (
	"mepapp/calltrack/internal/constants"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

type User struct {
	ID        string               `gorm:"column:id;primaryKey;type:uuid"`
	Name      string               `gorm:"column:name;not null"`
	Phone     string               `gorm:"column:phone;uniqueIndex;not null"`
	Role      constants.Role       `gorm:"column:role;type:varchar(16);not null;default:STAFF"`
	Status    constants.UserStatus `gorm:"column:status;type:varchar(16);not null;default:ACTIVE"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gormlib.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
