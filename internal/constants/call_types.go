package constants

import "strings"

// CallType is the normalized direction of a call.
type CallType string

const (
	CallTypeIncoming CallType = "INCOMING"
	CallTypeOutgoing CallType = "OUTGOING"
	CallTypeMissed   CallType = "MISSED"
	CallTypeUnknown  CallType = "UNKNOWN"
)

func (c CallType) String() string { return string(c) }

// ParseCallType maps a wire value onto a CallType. Unrecognized values become UNKNOWN.
func ParseCallType(s string) CallType {
	switch CallType(strings.ToUpper(strings.TrimSpace(s))) {
	case CallTypeIncoming:
		return CallTypeIncoming
	case CallTypeOutgoing:
		return CallTypeOutgoing
	case CallTypeMissed:
		return CallTypeMissed
	default:
		return CallTypeUnknown
	}
}

// Native registry type codes (android.provider.CallLog.Calls.TYPE).
const (
	NativeTypeIncoming = 1
	NativeTypeOutgoing = 2
	NativeTypeMissed   = 3
)

// CallTypeFromNative maps a native registry type code onto a CallType.
func CallTypeFromNative(code int) CallType {
	switch code {
	case NativeTypeIncoming:
		return CallTypeIncoming
	case NativeTypeOutgoing:
		return CallTypeOutgoing
	case NativeTypeMissed:
		return CallTypeMissed
	default:
		return CallTypeUnknown
	}
}

// SyncState of a device call record. Transitions only PENDING -> SYNCED.
type SyncState string

const (
	SyncStatePending SyncState = "PENDING"
	SyncStateSynced  SyncState = "SYNCED"
)
