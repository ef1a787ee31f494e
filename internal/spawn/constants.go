package spawn

// sweepBatchSize bounds how many spawns one sweep pass expires
const sweepBatchSize = 500

// Error message formats
const (
	ErrMsgGetSpawnFailed    = "failed to get spawn: %w"
	ErrMsgUpdateSpawnFailed = "failed to update spawn: %w"
	ErrMsgListSpawnsFailed  = "failed to list spawns: %w"
	ErrMsgCreateSpawnFailed = "failed to create spawn: %w"
)

// Log messages
const (
	LogMsgSpawnCreated     = "Spawn created"
	LogMsgSpawnReserved    = "Spawn reserved"
	LogMsgSpawnArrived     = "Player arrived at spawn"
	LogMsgSpawnFinalized   = "Spawn finalized"
	LogMsgSpawnAbandoned   = "Spawn abandoned"
	LogMsgSweepComplete    = "Expiry sweep complete"
	LogMsgSweepCASConflict = "Sweep skipped spawn changed concurrently"
)
