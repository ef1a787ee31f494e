package progression

// Error message formats
const (
	ErrMsgBeginTxFailed      = "failed to begin transaction: %w"
	ErrMsgCommitFailed       = "failed to commit transaction: %w"
	ErrMsgLoadProgressFailed = "failed to load progress: %w"
	ErrMsgSaveProgressFailed = "failed to save progress: %w"
	ErrMsgResetDailyFailed   = "failed to reset daily counts: %w"
)

// Log messages
const (
	LogMsgProgressCreated    = "Created progress for new player"
	LogMsgWarmthSpent        = "Warmth spent"
	LogMsgDailyReset         = "Daily catch counters reset"
	LogMsgPublishFailed      = "Failed to publish event"
	LogMsgInvariantViolation = "Invariant violation detected"
)
