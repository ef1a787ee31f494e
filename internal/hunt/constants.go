package hunt

// ListCatches page sizes
const (
	catchHistoryDefaultLimit = 20
	catchHistoryMaxLimit     = 100
)

// Error message formats
const (
	ErrMsgBeginTxFailed      = "failed to begin transaction: %w"
	ErrMsgCommitFailed       = "failed to commit transaction: %w"
	ErrMsgGetSpawnFailed     = "failed to get spawn: %w"
	ErrMsgSaveProgressFailed = "failed to save progress: %w"
	ErrMsgInsertCatchFailed  = "failed to insert catch record: %w"
	ErrMsgListCatchesFailed  = "failed to list catch records: %w"
	ErrMsgPlayerIDRequired   = "%w: player id is required"
	ErrMsgLocationRequired   = "%w: tracker ping needs the player's location"
)

// Log messages
const (
	LogMsgCatchResolved      = "Catch attempt resolved"
	LogMsgDailyCapReached    = "Catch rejected by daily cap"
	LogMsgSecondAttemptUsed  = "Second attempt charge consumed"
	LogMsgPublishFailed      = "Failed to publish event"
	LogMsgTrackerPing        = "Tracker ping issued"
	LogMsgSweepExpiredSpawns = "Expired spawns swept"
)
