package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Request parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"
	ErrMsgMissingPlayerID   = "Missing X-Player-ID header"
	ErrMsgInvalidSpawnID    = "Invalid spawn ID"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
)

// Success messages for API responses
const (
	MsgSpawnAbandoned     = "Spawn released"
	MsgSweepCompleted     = "Sweep completed"
	MsgDailyResetComplete = "Daily reset completed"
)

// Log messages
const (
	LogMsgServiceError      = "Service error"
	LogMsgRequestDecodeFail = "Failed to decode %s request"
	LogMsgRequestDecoded    = "%s request decoded"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgAdminSweep        = "Manual sweep triggered"
	LogMsgAdminDailyReset   = "Manual daily reset triggered"
)

// Header names
const (
	HeaderPlayerID = "X-Player-ID"
)
