package services

import (
	"context"
	"errors"

	"mepapp/calltrack/internal/db/repositories"
	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
	gormModels "mepapp/calltrack/internal/models/gorm"
)

// CallRecordInserter persists newly captured records.
type CallRecordInserter interface {
	Insert(ctx context.Context, rec *gormModels.DeviceCallRecord) error
}

// CaptureResult counts what one capture pass did with the registry rows it read.
type CaptureResult struct {
	Read       int `json:"read"`
	Stored     int `json:"stored"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// CallCaptureService runs read, dedup and store. It never touches the network.
type CallCaptureService struct {
	reader  *CallSourceReader
	gate    *DedupGate
	store   CallRecordInserter
	metrics *metrics.AgentMetrics
}

func NewCallCaptureService(reader *CallSourceReader, gate *DedupGate, store CallRecordInserter, m *metrics.AgentMetrics) *CallCaptureService {
	return &CallCaptureService{
		reader:  reader,
		gate:    gate,
		store:   store,
		metrics: m,
	}
}

// Capture stores every new registry row as a PENDING record.
// A registry failure is returned as *CaptureError with an empty result.
// Per-row store failures are counted and logged, never returned.
func (s *CallCaptureService) Capture(ctx context.Context) (*CaptureResult, error) {
	result := &CaptureResult{}

	candidates, err := s.reader.ReadNewCalls(ctx)
	if err != nil {
		return result, err
	}
	result.Read = len(candidates)

	for _, c := range candidates {
		admit, err := s.gate.Admit(ctx, c)
		if err != nil {
			result.Failed++
			s.metrics.CapturedRecords.WithLabelValues("error").Inc()
			logging.Error("Dedup check failed", "error", err.Error())
			continue
		}
		if !admit {
			result.Duplicates++
			s.metrics.CapturedRecords.WithLabelValues("duplicate").Inc()
			continue
		}

		if err := s.store.Insert(ctx, c.Record()); err != nil {
			if errors.Is(err, repositories.ErrDuplicateCallRecord) {
				result.Duplicates++
				s.metrics.CapturedRecords.WithLabelValues("duplicate").Inc()
				continue
			}
			result.Failed++
			s.metrics.CapturedRecords.WithLabelValues("error").Inc()
			logging.Error("Failed to store captured call",
				"phone_number", c.PhoneNumber,
				"occurred_at", c.OccurredAt,
				"error", err.Error(),
			)
			continue
		}
		result.Stored++
		s.metrics.CapturedRecords.WithLabelValues("stored").Inc()
	}

	if result.Stored > 0 {
		logging.Info("Captured new calls", "stored", result.Stored, "duplicates", result.Duplicates)
	}
	return result, nil
}
