package constants

import "testing"

func TestParseCallType(t *testing.T) {
	tests := map[string]CallType{
		"INCOMING":   CallTypeIncoming,
		" outgoing ": CallTypeOutgoing,
		"Missed":     CallTypeMissed,
		"":           CallTypeUnknown,
		"REJECTED":   CallTypeUnknown,
	}
	for in, want := range tests {
		if got := ParseCallType(in); got != want {
			t.Errorf("ParseCallType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestCallTypeFromNative(t *testing.T) {
	tests := map[int]CallType{
		NativeTypeIncoming: CallTypeIncoming,
		NativeTypeOutgoing: CallTypeOutgoing,
		NativeTypeMissed:   CallTypeMissed,
		0:                  CallTypeUnknown,
		5:                  CallTypeUnknown,
	}
	for in, want := range tests {
		if got := CallTypeFromNative(in); got != want {
			t.Errorf("CallTypeFromNative(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestGetErrorMessage(t *testing.T) {
	if msg := GetErrorMessage(ErrCodeStaffNotFound); msg != "Staff not found" {
		t.Errorf("Unexpected message %q", msg)
	}
	if msg := GetErrorMessage("NOPE"); msg != "An unknown error occurred" {
		t.Errorf("Unexpected fallback %q", msg)
	}
}
