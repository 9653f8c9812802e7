package services

import (
	"errors"
	"fmt"
)

var (
	// ErrStaffNotFound means the submitted staff id does not resolve to a user.
	ErrStaffNotFound = errors.New("staff not found")

	// ErrForbiddenStaff means a STAFF caller submitted for a different staff id.
	ErrForbiddenStaff = errors.New("caller may not submit call logs for another staff member")
)

// CaptureError wraps a failure to read the native call registry.
// The sync cycle logs it and continues to submission.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture failed: %v", e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// ValidationError reports an invalid call log request.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid call log: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
