package constants

const (
	// ContactSummaryRows selects every call with its staff name, newest first.
	// Aggregation per phone number happens in Go so the query stays portable
	// between Postgres and SQLite.
	ContactSummaryRows = `
	SELECT c.phone_number, c.contact_name, c.call_type, c.duration, c.timestamp, u.name AS staff_name
	FROM call_logs c
	LEFT JOIN users u ON u.id = c.staff_id
	ORDER BY c.timestamp DESC
	`
)
