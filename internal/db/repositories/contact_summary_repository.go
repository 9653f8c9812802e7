package repositories

import (
	"context"
	"time"

	"mepapp/calltrack/internal/constants"

	"github.com/jmoiron/sqlx"
)

// ContactCallRow is one call joined with its staff name.
type ContactCallRow struct {
	PhoneNumber string    `db:"phone_number"`
	ContactName *string   `db:"contact_name"`
	CallType    string    `db:"call_type"`
	Duration    int64     `db:"duration"`
	Timestamp   time.Time `db:"timestamp"`
	StaffName   *string   `db:"staff_name"`
}

// ContactSummaryRepo runs the raw read query behind the contacts summary.
type ContactSummaryRepo struct {
	db *sqlx.DB
}

// NewContactSummaryRepo creates a new contact summary repository
func NewContactSummaryRepo(db *sqlx.DB) *ContactSummaryRepo {
	return &ContactSummaryRepo{db: db}
}

// ListRows returns every call with its staff name, newest first.
func (r *ContactSummaryRepo) ListRows(ctx context.Context) ([]ContactCallRow, error) {
	var rows []ContactCallRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.ContactSummaryRows)); err != nil {
		return nil, err
	}
	return rows, nil
}
