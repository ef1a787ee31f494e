package eventlog

import "time"

// JSON payload field keys that identify the player an event belongs to
const (
	PayloadKeyPlayerID = "player_id"
	PayloadKeyHolderID = "holder_id"
)

// Query limits
const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 500
)

// CleanupJobName identifies the retention job in worker logs
const CleanupJobName = "event_log_cleanup"

// CleanupJobTimeout bounds a single retention run
const CleanupJobTimeout = 2 * time.Minute

// Log messages - service events
const (
	LogMsgEventPayloadNotMap = "Event payload is not an object, skipping log"
	LogMsgFailedToLogEvent   = "Failed to log event"
	LogMsgEventLogged        = "Event logged"
	LogMsgSubscribed         = "Event log subscribed"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event log cleanup job"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)

// Log field keys - structured logging fields
const (
	LogFieldType         = "type"
	LogFieldPlayerID     = "player_id"
	LogFieldError        = "error"
	LogFieldRetention    = "retention"
	LogFieldCutoff       = "cutoff"
	LogFieldDuration     = "duration"
	LogFieldDeletedCount = "deleted_count"
	LogFieldEventTypes   = "event_types"
)
