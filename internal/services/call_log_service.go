package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/constants"
	"mepapp/calltrack/internal/db/repositories"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
	"mepapp/calltrack/internal/models/dtos"
	gormModels "mepapp/calltrack/internal/models/gorm"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CallLogStore is the server store of record for call logs.
type CallLogStore interface {
	FindByDeviceCallID(ctx context.Context, deviceCallID, staffID string) (*gormModels.CallLog, error)
	Create(ctx context.Context, log *gormModels.CallLog) (bool, error)
	ListAll(ctx context.Context) ([]gormModels.CallLog, error)
	ListByJob(ctx context.Context, jobID string) ([]gormModels.CallLog, error)
	ListByStaff(ctx context.Context, staffID string) ([]gormModels.CallLog, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteUnkeyedDuplicates(ctx context.Context) (int, int64, error)
}

type StaffLookup interface {
	FindByID(ctx context.Context, id string) (*gormModels.User, error)
}

type JobLookup interface {
	FindByID(ctx context.Context, id string) (*gormModels.Job, error)
}

type ContactRowSource interface {
	ListRows(ctx context.Context) ([]repositories.ContactCallRow, error)
}

// CallLogService reconciles device submissions into the store of record.
type CallLogService struct {
	logs     CallLogStore
	staff    StaffLookup
	jobs     JobLookup
	contacts ContactRowSource
	cache    common.CacheInterface
	staffTTL time.Duration
	validate *validator.Validate
	metrics  *metrics.MetricsRegistry
	now      func() time.Time
}

func NewCallLogService(
	logs CallLogStore,
	staff StaffLookup,
	jobs JobLookup,
	contacts ContactRowSource,
	cache common.CacheInterface,
	staffTTL time.Duration,
	m *metrics.MetricsRegistry,
) *CallLogService {
	return &CallLogService{
		logs:     logs,
		staff:    staff,
		jobs:     jobs,
		contacts: contacts,
		cache:    cache,
		staffTTL: staffTTL,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  m,
		now:      time.Now,
	}
}

// Submit stores one call log. Resubmitting a record with the same device call
// id for the same staff member returns the stored record with created=false.
func (s *CallLogService) Submit(ctx context.Context, caller auth.UserClaims, req dtos.CallLogRequest) (*gormModels.CallLog, bool, error) {
	log, created, err := s.submit(ctx, caller, req)
	s.countSubmission(created, err)
	return log, created, err
}

func (s *CallLogService) submit(ctx context.Context, caller auth.UserClaims, req dtos.CallLogRequest) (*gormModels.CallLog, bool, error) {
	req.StaffID = strings.TrimSpace(req.StaffID)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := s.validate.Struct(req); err != nil {
		return nil, false, &ValidationError{Err: err}
	}
	if caller != nil && !caller.IsAdmin() && caller.UserID() != req.StaffID {
		return nil, false, ErrForbiddenStaff
	}
	// Staff ids are uuid columns; anything else cannot name a staff member.
	if !isUUID(req.StaffID) {
		return nil, false, ErrStaffNotFound
	}

	deviceCallID := common.NormalizeOptional(req.DeviceCallID)
	if deviceCallID != nil {
		existing, err := s.logs.FindByDeviceCallID(ctx, *deviceCallID, req.StaffID)
		if err != nil {
			return nil, false, fmt.Errorf("lookup device call id: %w", err)
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	if err := s.resolveStaff(ctx, req.StaffID); err != nil {
		return nil, false, err
	}

	log := &gormModels.CallLog{
		StaffID:      req.StaffID,
		JobID:        s.resolveJob(ctx, req.JobID),
		PhoneNumber:  req.PhoneNumber,
		Duration:     req.Duration,
		CallType:     constants.ParseCallType(req.CallType),
		ContactName:  common.NormalizeOptional(req.ContactName),
		Timestamp:    s.now().UTC(),
		DeviceCallID: deviceCallID,
	}
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		log.Timestamp = req.Timestamp.UTC()
	}

	created, err := s.logs.Create(ctx, log)
	if err != nil {
		return nil, false, fmt.Errorf("store call log: %w", err)
	}
	if created {
		return log, true, nil
	}
	if deviceCallID == nil {
		return nil, false, errors.New("call log without device call id was not stored")
	}

	// Lost a race with a concurrent submission of the same record.
	existing, err := s.logs.FindByDeviceCallID(ctx, *deviceCallID, req.StaffID)
	if err != nil {
		return nil, false, fmt.Errorf("reload concurrent duplicate: %w", err)
	}
	if existing == nil {
		return nil, false, fmt.Errorf("call log %s conflicted but was not found", *deviceCallID)
	}
	return existing, false, nil
}

func (s *CallLogService) countSubmission(created bool, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "existing"
	var verr *ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, ErrForbiddenStaff), errors.Is(err, ErrStaffNotFound):
		outcome = "rejected"
	case err != nil:
		outcome = "error"
	case created:
		outcome = "created"
	}
	s.metrics.CallLogSubmissions.WithLabelValues(outcome).Inc()
}

// resolveStaff checks the staff id exists. Hits are cached; misses are not.
func (s *CallLogService) resolveStaff(ctx context.Context, staffID string) error {
	key := string(constants.CachePrefixStaff) + staffID
	if _, found := s.cache.Get(key); found {
		s.countCache(true)
		return nil
	}
	s.countCache(false)

	user, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		return fmt.Errorf("lookup staff: %w", err)
	}
	if user == nil {
		return ErrStaffNotFound
	}
	s.cache.Set(key, user.ID, s.staffTTL)
	return nil
}

func (s *CallLogService) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixStaff)).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixStaff)).Inc()
	}
}

// resolveJob returns the job id when it resolves, nil otherwise.
// An unresolvable job never rejects the call.
func (s *CallLogService) resolveJob(ctx context.Context, jobID *string) *string {
	id := common.NormalizeOptional(jobID)
	if id == nil {
		return nil
	}
	if !isUUID(*id) {
		logging.Debug("Malformed job id, storing call unattributed", "job_id", *id)
		return nil
	}
	job, err := s.jobs.FindByID(ctx, *id)
	if err != nil {
		logging.Warn("Job lookup failed, storing call unattributed", "job_id", *id, "error", err.Error())
		return nil
	}
	if job == nil {
		logging.Debug("Unknown job id, storing call unattributed", "job_id", *id)
		return nil
	}
	return &job.ID
}

// SubmitBatch submits each element independently and reports per-element results.
func (s *CallLogService) SubmitBatch(ctx context.Context, caller auth.UserClaims, reqs []dtos.CallLogRequest) []dtos.BatchItemResult {
	results := make([]dtos.BatchItemResult, 0, len(reqs))
	for i, req := range reqs {
		item := dtos.BatchItemResult{Index: i}
		log, created, err := s.Submit(ctx, caller, req)
		if err != nil {
			item.Code = ErrorCodeFor(err)
			item.Error = err.Error()
		} else {
			item.ID = log.ID
			item.Created = created
		}
		results = append(results, item)
	}
	return results
}

// ErrorCodeFor maps a service error onto an API error code.
func ErrorCodeFor(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return constants.ErrCodeInvalidRequest
	case errors.Is(err, ErrForbiddenStaff):
		return constants.ErrCodeForbidden
	case errors.Is(err, ErrStaffNotFound):
		return constants.ErrCodeStaffNotFound
	default:
		return constants.ErrCodeServerError
	}
}

// ResetAll deletes every call log. Administrative; kept for existing runbooks.
func (s *CallLogService) ResetAll(ctx context.Context) (int64, error) {
	deleted, err := s.logs.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset call logs: %w", err)
	}
	logging.Warn("All call logs deleted", "deleted", deleted)
	return deleted, nil
}

// DedupeUnkeyed removes exact duplicates among call logs without a device call id.
func (s *CallLogService) DedupeUnkeyed(ctx context.Context) (*dtos.DedupeResponse, error) {
	groups, removed, err := s.logs.DeleteUnkeyedDuplicates(ctx)
	if err != nil {
		return nil, fmt.Errorf("dedupe call logs: %w", err)
	}
	if s.metrics != nil {
		s.metrics.DuplicatesRemoved.Add(float64(removed))
	}
	if removed > 0 {
		logging.Info("Removed duplicate call logs", "groups", groups, "removed", removed)
	}
	return &dtos.DedupeResponse{GroupsFound: groups, Removed: removed}, nil
}

func (s *CallLogService) ListAll(ctx context.Context) ([]gormModels.CallLog, error) {
	return s.logs.ListAll(ctx)
}

func (s *CallLogService) ListByJob(ctx context.Context, jobID string) ([]gormModels.CallLog, error) {
	if !isUUID(jobID) {
		return []gormModels.CallLog{}, nil
	}
	return s.logs.ListByJob(ctx, jobID)
}

func (s *CallLogService) ListByStaff(ctx context.Context, staffID string) ([]gormModels.CallLog, error) {
	if !isUUID(staffID) {
		return []gormModels.CallLog{}, nil
	}
	return s.logs.ListByStaff(ctx, staffID)
}

func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}

// ContactSummary aggregates calls per phone number, most recently called first.
func (s *CallLogService) ContactSummary(ctx context.Context) ([]dtos.ContactSummary, error) {
	rows, err := s.contacts.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contact rows: %w", err)
	}

	byNumber := make(map[string]*dtos.ContactSummary)
	for _, row := range rows {
		sum, ok := byNumber[row.PhoneNumber]
		if !ok {
			sum = &dtos.ContactSummary{PhoneNumber: row.PhoneNumber}
			byNumber[row.PhoneNumber] = sum
		}
		sum.TotalCalls++
		sum.TotalDuration += row.Duration
		switch constants.ParseCallType(row.CallType) {
		case constants.CallTypeIncoming:
			sum.Incoming++
		case constants.CallTypeOutgoing:
			sum.Outgoing++
		case constants.CallTypeMissed:
			sum.Missed++
		}
		if sum.LastCallAt.IsZero() || row.Timestamp.After(sum.LastCallAt) {
			sum.LastCallAt = row.Timestamp
			sum.LastCallType = row.CallType
			sum.StaffName = row.StaffName
		}
		if sum.ContactName == nil {
			sum.ContactName = common.NormalizeOptional(row.ContactName)
		}
	}

	out := make([]dtos.ContactSummary, 0, len(byNumber))
	for _, sum := range byNumber {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastCallAt.Equal(out[j].LastCallAt) {
			return out[i].PhoneNumber < out[j].PhoneNumber
		}
		return out[i].LastCallAt.After(out[j].LastCallAt)
	})
	return out, nil
}
