package services

import (
	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/models/dtos"
	gormModels "mepapp/calltrack/internal/models/gorm"
)

// recordToRequest builds the wire request for a stored device record.
func recordToRequest(rec gormModels.DeviceCallRecord) dtos.CallLogRequest {
	return dtos.CallLogRequest{
		StaffID:      rec.StaffID,
		PhoneNumber:  rec.PhoneNumber,
		Duration:     rec.DurationSeconds,
		CallType:     rec.CallType.String(),
		ContactName:  common.NormalizeOptional(rec.ContactName),
		Timestamp:    &dtos.LocalTimestamp{Time: rec.OccurredAt},
		DeviceCallID: common.NormalizeOptional(rec.DeviceCallID),
	}
}

// CallLogToResponse maps a stored server record onto its API shape.
func CallLogToResponse(log *gormModels.CallLog) dtos.CallLogResponse {
	return dtos.CallLogResponse{
		ID:           log.ID,
		StaffID:      log.StaffID,
		JobID:        log.JobID,
		PhoneNumber:  log.PhoneNumber,
		Duration:     log.Duration,
		CallType:     log.CallType.String(),
		ContactName:  log.ContactName,
		Timestamp:    log.Timestamp,
		DeviceCallID: log.DeviceCallID,
		CreatedAt:    log.CreatedAt,
	}
}

// CallLogsToResponse maps a list of stored records onto their API shape.
func CallLogsToResponse(logs []gormModels.CallLog) []dtos.CallLogResponse {
	out := make([]dtos.CallLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, CallLogToResponse(&logs[i]))
	}
	return out
}

