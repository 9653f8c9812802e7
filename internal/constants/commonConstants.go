package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixStaff CachePrefix = "STAFF_"
)

// Keys persisted in the device settings table.
const (
	SettingStaffID    = "session.staff_id"
	SettingToken      = "session.token"
	SettingLastSyncAt = "sync.last_sync_at"
)

// UnknownPhoneNumber is stored when the registry row carries no number.
const UnknownPhoneNumber = "Unknown"
