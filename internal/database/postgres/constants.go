package postgres

import "time"

// PostgreSQL Error Codes
const (
	PgErrorCodeUniqueViolation      = "23505"
	PgErrorCodeSerializationFailure = "40001"
	PgErrorCodeDeadlockDetected     = "40P01"
	PgErrorCodeLockNotAvailable     = "55P03"
	PgErrorCodeAdminShutdown        = "57P01"
	PgErrorCodeCrashShutdown        = "57P02"
	PgErrorCodeCannotConnectNow     = "57P03"
	PgErrorCodeTooManyConnections   = "53300"

	// PgErrorClassConnection prefixes every connection exception code
	PgErrorClassConnection = "08"
)

// Retry defaults for pool-level operations
const (
	DefaultMaxRetries      = 3
	DefaultInitialInterval = 50 * time.Millisecond
	DefaultMaxInterval     = time.Second
)

// Advisory lock hashing
const (
	// HashMaskPositiveInt64 clears the sign bit of the lock key
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF
	// AdvisoryLockNamespace prefixes player ids so hunt locks never collide
	// with other advisory lock users on the same database.
	AdvisoryLockNamespace = "hunt:player:"
)

// Operation names, used as the retry metric label
const (
	OpCreateSpawn         = "create_spawn"
	OpGetSpawn            = "get_spawn"
	OpUpdateSpawn         = "update_spawn"
	OpListSpawnsInBounds  = "list_spawns_in_bounds"
	OpListSweepCandidates = "list_sweep_candidates"
	OpGetProgress         = "get_progress"
	OpResetDailyCounts    = "reset_daily_counts"
	OpListCatchRecords    = "list_catch_records"
	OpBeginTx             = "begin_tx"
	OpCommit              = "commit"
	OpSaveProgress        = "save_progress"
	OpInsertCatchRecord   = "insert_catch_record"
	OpPing                = "ping"
	OpLogEvent            = "log_event"
	OpGetEvents           = "get_events"
	OpCleanupEvents       = "cleanup_events"
)

const spawnColumns = `spawn_id, kind, rarity, lat, lng, created_at, expires_at, state,
	holder_id, reserved_at, deadline, target_center, target_half_width,
	attempts, max_attempts, reward_ref, version`

const progressColumns = `player_id, level, total_xp, points, daily_catch_count, cap_reset_at,
	streak_days, last_active_date, warmth, pity_since_rare, pity_since_epic,
	pity_since_legendary, second_attempt_charges, heat_mode_until, created_at, updated_at`

const catchColumns = `catch_id, spawn_id, player_id, spawn_kind, rarity, timing_input, quality,
	success_probability, outcome, xp_awarded, points_awarded, created_at`

// SQL Queries - Spawns
const (
	SQLInsertSpawn = `
		INSERT INTO spawns (` + spawnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	SQLGetSpawn = `SELECT ` + spawnColumns + ` FROM spawns WHERE spawn_id = $1`

	SQLUpdateSpawnIfMatches = `
		UPDATE spawns SET
			state = $2,
			holder_id = $3,
			reserved_at = $4,
			deadline = $5,
			target_center = $6,
			target_half_width = $7,
			attempts = $8,
			reward_ref = $9,
			expires_at = $10,
			version = version + 1
		WHERE spawn_id = $1 AND state = $11 AND version = $12`

	// Longitude is filtered in Go when the box wraps the antimeridian
	SQLListSpawnsInBounds = `
		SELECT ` + spawnColumns + ` FROM spawns
		WHERE state IN ('AVAILABLE', 'RESERVED', 'ARRIVED')
		  AND expires_at >= $1
		  AND lat BETWEEN $2 AND $3`

	SQLListSpawnsInBoundsLng = SQLListSpawnsInBounds + `
		  AND lng BETWEEN $4 AND $5`

	SQLListSweepCandidates = `
		SELECT ` + spawnColumns + ` FROM spawns
		WHERE state IN ('AVAILABLE', 'RESERVED', 'ARRIVED')
		  AND (expires_at < $1 OR (state IN ('RESERVED', 'ARRIVED') AND deadline < $1))
		ORDER BY LEAST(expires_at, COALESCE(deadline, expires_at)), spawn_id
		LIMIT $2`
)

// SQL Queries - Progress
const (
	SQLGetProgress = `SELECT ` + progressColumns + ` FROM player_progress WHERE player_id = $1`

	SQLGetProgressForUpdate = SQLGetProgress + ` FOR UPDATE`

	SQLAdvisoryXactLock = `SELECT pg_advisory_xact_lock($1)`

	SQLUpsertProgress = `
		INSERT INTO player_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (player_id) DO UPDATE SET
			level = EXCLUDED.level,
			total_xp = EXCLUDED.total_xp,
			points = EXCLUDED.points,
			daily_catch_count = EXCLUDED.daily_catch_count,
			cap_reset_at = EXCLUDED.cap_reset_at,
			streak_days = EXCLUDED.streak_days,
			last_active_date = EXCLUDED.last_active_date,
			warmth = EXCLUDED.warmth,
			pity_since_rare = EXCLUDED.pity_since_rare,
			pity_since_epic = EXCLUDED.pity_since_epic,
			pity_since_legendary = EXCLUDED.pity_since_legendary,
			second_attempt_charges = EXCLUDED.second_attempt_charges,
			heat_mode_until = EXCLUDED.heat_mode_until,
			updated_at = EXCLUDED.updated_at`

	SQLResetDailyCounts = `
		UPDATE player_progress
		SET daily_catch_count = 0, updated_at = NOW()
		WHERE cap_reset_at < $1 AND daily_catch_count > 0`
)

// SQL Queries - Catch records
const (
	SQLInsertCatchRecord = `
		INSERT INTO catch_records (` + catchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	SQLListCatchRecords = `
		SELECT ` + catchColumns + ` FROM catch_records
		WHERE player_id = $1
		ORDER BY created_at DESC, catch_id
		LIMIT $2`
)

// SQL Queries - Event log
const (
	SQLInsertEvent = `
		INSERT INTO event_log (event_type, player_id, payload, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	// Filters are appended by GetEvents
	SQLSelectEvents = `
		SELECT id, event_type, player_id, payload, metadata, created_at
		FROM event_log
		WHERE 1=1`

	SQLDeleteEventsBefore = `DELETE FROM event_log WHERE created_at < $1`
)

// Error Messages
const (
	ErrMsgCreateSpawnFailed        = "failed to create spawn: %w"
	ErrMsgGetSpawnFailed           = "failed to get spawn: %w"
	ErrMsgUpdateSpawnFailed        = "failed to update spawn: %w"
	ErrMsgListSpawnsFailed         = "failed to list spawns: %w"
	ErrMsgScanSpawnFailed          = "failed to scan spawn: %w"
	ErrMsgGetProgressFailed        = "failed to get progress: %w"
	ErrMsgSaveProgressFailed       = "failed to save progress: %w"
	ErrMsgResetDailyCountsFailed   = "failed to reset daily counts: %w"
	ErrMsgInsertCatchRecordFailed  = "failed to insert catch record: %w"
	ErrMsgListCatchRecordsFailed   = "failed to list catch records: %w"
	ErrMsgFailedToBeginTransaction = "failed to begin transaction: %w"
	ErrMsgAcquireLockFailed        = "failed to acquire player lock: %w"
	ErrMsgCommitFailed             = "failed to commit transaction: %w"
	ErrMsgMarshalEventFailed       = "failed to marshal event %s: %w"
	ErrMsgLogEventFailed           = "failed to log event: %w"
	ErrMsgGetEventsFailed          = "failed to get events: %w"
	ErrMsgScanEventFailed          = "failed to scan event: %w"
	ErrMsgCleanupEventsFailed      = "failed to cleanup events: %w"
)

// Log Messages
const (
	LogMsgRetryingOperation = "Retrying repository operation"
	LogMsgRetriesExhausted  = "Repository operation failed after retries"
)
