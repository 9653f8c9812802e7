package repositories

import (
	"context"
	"fmt"
	"time"

	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceSettingsRepo persists durable device state as key/value rows.
type DeviceSettingsRepo struct {
	db *gormlib.DB
}

// NewDeviceSettingsRepo creates a new device settings repository
func NewDeviceSettingsRepo(db *gormlib.DB) *DeviceSettingsRepo {
	return &DeviceSettingsRepo{db: db}
}

// Get returns the value for key and whether it was set.
func (r *DeviceSettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var setting gorm.DeviceSetting
	// An unset key is the normal logged-out state, so avoid First and its not-found log.
	res := r.db.WithContext(ctx).Where("setting_key = ?", key).Limit(1).Find(&setting)
	if res.Error != nil {
		return "", false, res.Error
	}
	if res.RowsAffected == 0 {
		return "", false, nil
	}
	return setting.Value, true, nil
}

// Set upserts the value for key.
func (r *DeviceSettingsRepo) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&gorm.DeviceSetting{Key: key, Value: value}).Error
}

// Delete removes the given keys.
func (r *DeviceSettingsRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("setting_key IN ?", keys).
		Delete(&gorm.DeviceSetting{}).Error
}

// LastSyncAt returns nil when no cycle has submitted successfully yet.
func (r *DeviceSettingsRepo) LastSyncAt(ctx context.Context) (*time.Time, error) {
	val, ok, err := r.Get(ctx, constants.SettingLastSyncAt)
	if err != nil || !ok {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", constants.SettingLastSyncAt, err)
	}
	return &t, nil
}

// SetLastSyncAt records the time of the latest successful submission.
func (r *DeviceSettingsRepo) SetLastSyncAt(ctx context.Context, t time.Time) error {
	return r.Set(ctx, constants.SettingLastSyncAt, t.UTC().Format(time.RFC3339Nano))
}
