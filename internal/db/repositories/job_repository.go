package repositories

import (
	"context"

	"mepapp/calltrack/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

type JobRepo struct {
	db *gormlib.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *gormlib.DB) *JobRepo {
	return &JobRepo{db: db}
}

// FindByID returns nil, nil when no job has this id.
func (r *JobRepo) FindByID(ctx context.Context, id string) (*gorm.Job, error) {
	var job gorm.Job
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}
