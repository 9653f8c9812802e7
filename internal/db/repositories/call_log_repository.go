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

// CallLogRepo handles call_logs table operations
type CallLogRepo struct {
	db *gormlib.DB
}

// NewCallLogRepo creates a new call log repository
func NewCallLogRepo(db *gormlib.DB) *CallLogRepo {
	return &CallLogRepo{db: db}
}

// FindByDeviceCallID finds the record stored for (deviceCallID, staffID). Returns nil, nil when absent.
func (r *CallLogRepo) FindByDeviceCallID(ctx context.Context, deviceCallID, staffID string) (*gorm.CallLog, error) {
	var log gorm.CallLog
	res := r.db.WithContext(ctx).
		Where("device_call_id = ? AND staff_id = ?", deviceCallID, staffID).
		Limit(1).
		Find(&log)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &log, nil
}

// Create inserts the record unless (device_call_id, staff_id) already exists.
// ON CONFLICT (device_call_id, staff_id) DO NOTHING; created is false on conflict.
func (r *CallLogRepo) Create(ctx context.Context, log *gorm.CallLog) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "device_call_id"},
				{Name: "staff_id"},
			},
			DoNothing: true,
		}).
		Create(log)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListAll returns every call log, newest first.
func (r *CallLogRepo) ListAll(ctx context.Context) ([]gorm.CallLog, error) {
	return r.list(ctx, "", nil)
}

// ListByJob returns the call logs attributed to a job, newest first.
func (r *CallLogRepo) ListByJob(ctx context.Context, jobID string) ([]gorm.CallLog, error) {
	return r.list(ctx, "job_id = ?", jobID)
}

// ListByStaff returns the call logs of one staff member, newest first.
func (r *CallLogRepo) ListByStaff(ctx context.Context, staffID string) ([]gorm.CallLog, error) {
	return r.list(ctx, "staff_id = ?", staffID)
}

func (r *CallLogRepo) list(ctx context.Context, where string, arg interface{}) ([]gorm.CallLog, error) {
	q := r.db.WithContext(ctx).Order("timestamp DESC")
	if where != "" {
		q = q.Where(where, arg)
	}
	var logs []gorm.CallLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// DeleteAll removes every call log and returns how many rows were deleted.
func (r *CallLogRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gormlib.Session{AllowGlobalUpdate: true}).
		Delete(&gorm.CallLog{})
	return res.RowsAffected, res.Error
}

type unkeyedKey struct {
	staffID  string
	phone    string
	ts       time.Time
	duration int64
	callType constants.CallType
}

// DeleteUnkeyedDuplicates removes exact duplicates among rows without a device call id.
// Rows match on staff, number, timestamp, duration and type; the earliest created row is kept.
func (r *CallLogRepo) DeleteUnkeyedDuplicates(ctx context.Context) (groups int, removed int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		var rows []gorm.CallLog
		if err := tx.Where("device_call_id IS NULL").
			Order("created_at ASC, id ASC").
			Find(&rows).Error; err != nil {
			return fmt.Errorf("load unkeyed call logs: %w", err)
		}

		seen := make(map[unkeyedKey]int, len(rows))
		var doomed []string
		for _, row := range rows {
			key := unkeyedKey{row.StaffID, row.PhoneNumber, row.Timestamp.UTC(), row.Duration, row.CallType}
			seen[key]++
			switch seen[key] {
			case 1:
				continue
			case 2:
				groups++
			}
			doomed = append(doomed, row.ID)
		}

		for start := 0; start < len(doomed); start += 500 {
			end := start + 500
			if end > len(doomed) {
				end = len(doomed)
			}
			res := tx.Where("id IN ?", doomed[start:end]).Delete(&gorm.CallLog{})
			if res.Error != nil {
				return fmt.Errorf("delete duplicates: %w", res.Error)
			}
			removed += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return groups, removed, nil
}
