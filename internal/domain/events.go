package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "spawn.reserved")
const (
	// EventTypeSpawnReserved is published when a player wins a reservation
	EventTypeSpawnReserved = "spawn.reserved"

	// EventTypeSpawnArrived is published when the holder is confirmed in range
	EventTypeSpawnArrived = "spawn.arrived"

	// EventTypeSpawnAbandoned is published when the holder releases a spawn
	EventTypeSpawnAbandoned = "spawn.abandoned"

	// EventTypeSpawnExpired is published by the sweep for each expired spawn
	EventTypeSpawnExpired = "spawn.expired"

	// EventTypeCatchResolved is published after a catch attempt commits
	EventTypeCatchResolved = "catch.resolved"

	// EventTypeLevelUp is published when a catch moves a player up a level
	EventTypeLevelUp = "progression.level_up"

	// EventTypeWarmthSpent is published when warmth is spent on a feature
	EventTypeWarmthSpent = "warmth.spent"

	// EventTypeDailyResetComplete is published when the daily counter reset completes
	EventTypeDailyResetComplete = "daily_reset.complete"
)
