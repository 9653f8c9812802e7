package constants

// Error codes carried in API responses and ProviderError values.
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeStaffNotFound    = "STAFF_NOT_FOUND"
	ErrCodeNotFound         = "RESOURCE_NOT_FOUND"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeNetworkError     = "NETWORK_ERROR"
	ErrCodeServerError      = "SERVER_ERROR"
	ErrCodeDecodeError      = "DECODE_ERROR"
	ErrCodeSessionMissing   = "SESSION_MISSING"
	ErrCodeDeviceOffline    = "DEVICE_OFFLINE"
	ErrCodeRegistryReadFail = "REGISTRY_READ_FAILED"
)

var errorMessages = map[string]string{
	ErrCodeInvalidRequest:   "The call log request is invalid",
	ErrCodeUnauthorized:     "The session token was rejected",
	ErrCodeForbidden:        "The caller may not act for this staff member",
	ErrCodeStaffNotFound:    "Staff not found",
	ErrCodeNotFound:         "The requested resource was not found",
	ErrCodeRateLimited:      "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:     "Unable to reach the call log service",
	ErrCodeServerError:      "The call log service returned an error",
	ErrCodeDecodeError:      "The call log service returned an unreadable response",
	ErrCodeSessionMissing:   "No active session on this device",
	ErrCodeDeviceOffline:    "The device has no network connectivity",
	ErrCodeRegistryReadFail: "Unable to read the device call registry",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An unknown error occurred"
}
