package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Security metric names
const (
	MetricNameAuthFailures     = "http_auth_failures_total"
	MetricNameRateLimitedTotal = "http_rate_limited_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Hunt metric names
const (
	MetricNameReservations        = "hunt_reservations_total"
	MetricNameArrivals            = "hunt_arrivals_total"
	MetricNameCatchAttempts       = "hunt_catch_attempts_total"
	MetricNameCatchProbability    = "hunt_catch_success_probability"
	MetricNameSpawnsExpired       = "hunt_spawns_expired_total"
	MetricNameLevelUps            = "hunt_level_ups_total"
	MetricNameWarmthSpent         = "hunt_warmth_spent_total"
	MetricNameDailyCapRejections  = "hunt_daily_cap_rejections_total"
	MetricNameInvariantViolations = "hunt_invariant_violations_total"
	MetricNameRepositoryRetries   = "hunt_repository_retries_total"
	MetricNameSweepDuration       = "hunt_sweep_duration_seconds"
	MetricNameScheduledJobs       = "hunt_scheduled_jobs_total"
	MetricNameEventLogDeleted     = "hunt_event_log_deleted_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Security metric help text
const (
	HelpTextAuthFailures     = "Requests rejected for a missing or wrong API key"
	HelpTextRateLimitedTotal = "Requests rejected by the per-IP rate limit"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Hunt metric help text
const (
	HelpTextReservations        = "Reservation attempts by result"
	HelpTextArrivals            = "Arrival confirmations by result"
	HelpTextCatchAttempts       = "Resolved catch attempts by rarity, quality and outcome"
	HelpTextCatchProbability    = "Success probability used for resolved catch attempts"
	HelpTextSpawnsExpired       = "Spawns expired by the sweep, by previous state"
	HelpTextLevelUps            = "Level ups by new level"
	HelpTextWarmthSpent         = "Warmth spent by feature"
	HelpTextDailyCapRejections  = "Catch attempts rejected by the daily cap"
	HelpTextInvariantViolations = "Detected invariant violations by component"
	HelpTextRepositoryRetries   = "Transient storage failures retried by operation"
	HelpTextSweepDuration       = "Duration of expiry sweeps in seconds"
	HelpTextScheduledJobs       = "Scheduler ticks by job and whether the pool accepted them"
	HelpTextEventLogDeleted     = "Event log rows removed by retention cleanup"
)

// Scheduled job results
const (
	JobResultEnqueued = "enqueued"
	JobResultSkipped  = "skipped"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelResult    = "result"
	LabelRarity    = "rarity"
	LabelQuality   = "quality"
	LabelOutcome   = "outcome"
	LabelState     = "state"
	LabelLevel     = "level"
	LabelFeature   = "feature"
	LabelComponent = "component"
	LabelOperation = "operation"
	LabelJob       = "job"
)

// Result label values
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// UnmatchedRoute labels requests that no route matched
const UnmatchedRoute = "unmatched"

// ============================================================================
// Buckets
// ============================================================================

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// ProbabilityBuckets cover [0, 1] in steps of 0.1
var ProbabilityBuckets = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, .95, 1}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadDecodeFailed = "Failed to decode event payload for metrics"
)
