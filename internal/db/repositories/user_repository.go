package repositories

import (
	"context"

	"mepapp/calltrack/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

type UserRepo struct {
	db *gormlib.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *gormlib.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindByID returns nil, nil when no user has this id.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*gorm.User, error) {
	var user gorm.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a user. Used by the seed tool and tests.
func (r *UserRepo) Create(ctx context.Context, user *gorm.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
