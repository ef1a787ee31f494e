package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0o755
)

// =============================================================================
// Logger Messages
// =============================================================================

const (
	LogMsgLoggingInitialized = "Logging initialized"
	LogMsgStarting           = "Starting hunt service"
	LogMsgConfigLoaded       = "Configuration loaded"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	LogMsgDeadLetterBacklog              = "Undelivered events found in dead-letter file"
	LogMsgDeadLetterBacklogUnreadable    = "Could not read dead-letter file"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
	LogMsgEventLogSubscribed             = "Event log subscribed to hunt events"
	ErrMsgFailedSubscribeEventLog        = "failed to subscribe event log"
)

// =============================================================================
// Storage Messages
// =============================================================================

const (
	LogMsgStorageMemory       = "Using in-memory storage; state is lost on restart"
	LogMsgStoragePostgres     = "Using PostgreSQL storage"
	LogMsgMigrationsApplied   = "Database migrations applied"
	LogMsgMigrationsSkipped   = "AUTO_MIGRATE disabled, skipping migrations"
	ErrMsgFailedOpenPool      = "failed to open database pool"
	ErrMsgFailedRunMigrations = "failed to run migrations"
)

// =============================================================================
// Economy Messages
// =============================================================================

const (
	LogMsgEconomyLoaded     = "Economy config loaded"
	ErrMsgFailedLoadEconomy = "failed to load economy config"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgDailyResetShutdownFailed   = "Daily reset worker shutdown failed"
)
