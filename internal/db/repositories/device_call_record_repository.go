package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ErrDuplicateCallRecord is returned when a record with the same device call id is already stored.
var ErrDuplicateCallRecord = errors.New("call record already stored for this device call id")

// DeviceCallRecordRepo is the local call record store on the device.
type DeviceCallRecordRepo struct {
	db *gormlib.DB
}

// NewDeviceCallRecordRepo creates a new device call record repository
func NewDeviceCallRecordRepo(db *gormlib.DB) *DeviceCallRecordRepo {
	return &DeviceCallRecordRepo{db: db}
}

// Insert stores a new PENDING record and assigns its LocalID.
func (r *DeviceCallRecordRepo) Insert(ctx context.Context, rec *gorm.DeviceCallRecord) error {
	rec.SyncState = constants.SyncStatePending
	err := r.db.WithContext(ctx).Create(rec).Error
	if errors.Is(err, gormlib.ErrDuplicatedKey) {
		return ErrDuplicateCallRecord
	}
	return err
}

// ExistsByDeviceCallID reports whether a record with this device call id is stored.
func (r *DeviceCallRecordRepo) ExistsByDeviceCallID(ctx context.Context, deviceCallID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.DeviceCallRecord{}).
		Where("device_call_id = ?", deviceCallID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUnsynced returns every PENDING record, oldest first.
func (r *DeviceCallRecordRepo) ListUnsynced(ctx context.Context) ([]gorm.DeviceCallRecord, error) {
	var records []gorm.DeviceCallRecord
	err := r.db.WithContext(ctx).
		Where("sync_state = ?", constants.SyncStatePending).
		Order("local_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// MarkSynced moves the given records to SYNCED in one transaction.
// Records already SYNCED are left untouched.
func (r *DeviceCallRecordRepo) MarkSynced(ctx context.Context, localIDs []int64) error {
	if len(localIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		err := tx.Model(&gorm.DeviceCallRecord{}).
			Where("local_id IN ? AND sync_state = ?", localIDs, constants.SyncStatePending).
			Updates(map[string]interface{}{
				"sync_state": constants.SyncStateSynced,
				"synced_at":  now,
				"last_error": nil,
			}).Error
		if err != nil {
			return fmt.Errorf("mark synced: %w", err)
		}
		return nil
	})
}

// RecordFailure bumps the attempt counter and stores the last error of a PENDING record.
func (r *DeviceCallRecordRepo) RecordFailure(ctx context.Context, localID int64, cause string) error {
	return r.db.WithContext(ctx).
		Model(&gorm.DeviceCallRecord{}).
		Where("local_id = ? AND sync_state = ?", localID, constants.SyncStatePending).
		Updates(map[string]interface{}{
			"attempt_count": gormlib.Expr("attempt_count + 1"),
			"last_error":    cause,
		}).Error
}

// FindByLocalID returns nil, nil when the record does not exist.
func (r *DeviceCallRecordRepo) FindByLocalID(ctx context.Context, localID int64) (*gorm.DeviceCallRecord, error) {
	var rec gorm.DeviceCallRecord
	err := r.db.WithContext(ctx).First(&rec, "local_id = ?", localID).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListRecent returns the newest records by occurrence time.
func (r *DeviceCallRecordRepo) ListRecent(ctx context.Context, limit int) ([]gorm.DeviceCallRecord, error) {
	var records []gorm.DeviceCallRecord
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

type stateCount struct {
	SyncState constants.SyncState `gorm:"column:sync_state"`
	Total     int64               `gorm:"column:total"`
}

// CountByState returns the number of records per sync state.
func (r *DeviceCallRecordRepo) CountByState(ctx context.Context) (map[constants.SyncState]int64, error) {
	var rows []stateCount
	err := r.db.WithContext(ctx).
		Model(&gorm.DeviceCallRecord{}).
		Select("sync_state, COUNT(*) AS total").
		Group("sync_state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := map[constants.SyncState]int64{
		constants.SyncStatePending: 0,
		constants.SyncStateSynced:  0,
	}
	for _, row := range rows {
		counts[row.SyncState] = row.Total
	}
	return counts, nil
}
