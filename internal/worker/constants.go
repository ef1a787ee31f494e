package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgWorkerJobSucceeded = "Worker job finished"
	LogMsgWorkerQueueFull    = "Worker queue full, job skipped"
)

// ============================================================================
// Log Messages - Sweep Job
// ============================================================================

// SweepJobName identifies the expiry sweep in logs
const SweepJobName = "spawn_sweep"

// DefaultSweepTimeout bounds one sweep run
const DefaultSweepTimeout = 30 * time.Second

// ============================================================================
// Log Messages - Daily Reset Worker
// ============================================================================

// Log messages for daily reset worker operations
const (
	LogMsgDailyResetStarting  = "Daily reset starting"
	LogMsgDailyResetCompleted = "Daily reset completed"
	LogMsgDailyResetFailed    = "Daily reset failed"
	LogMsgDailyResetStandby   = "Daily reset standby"
	LogMsgDailyResetApproach  = "Daily reset scheduled"
)

// Daily reset scheduling
const (
	// Timers further out than this wake up early and reschedule
	dailyResetStandbyThreshold = time.Hour
	dailyResetStandbyLead      = 45 * time.Minute
	// A timer firing this early is treated as jitter and rescheduled
	dailyResetJitterTolerance = 10 * time.Second
	dailyResetTimeout         = time.Minute
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
