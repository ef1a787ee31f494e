package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Security Metrics
var (
	AuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAuthFailures,
			Help: HelpTextAuthFailures,
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRateLimitedTotal,
			Help: HelpTextRateLimitedTotal,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Hunt Metrics
var (
	Reservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameReservations,
			Help: HelpTextReservations,
		},
		[]string{LabelResult},
	)

	Arrivals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameArrivals,
			Help: HelpTextArrivals,
		},
		[]string{LabelResult},
	)

	CatchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatchAttempts,
			Help: HelpTextCatchAttempts,
		},
		[]string{LabelRarity, LabelQuality, LabelOutcome},
	)

	CatchProbability = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameCatchProbability,
			Help:    HelpTextCatchProbability,
			Buckets: ProbabilityBuckets,
		},
	)

	SpawnsExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpawnsExpired,
			Help: HelpTextSpawnsExpired,
		},
		[]string{LabelState},
	)

	LevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
		[]string{LabelLevel},
	)

	WarmthSpent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWarmthSpent,
			Help: HelpTextWarmthSpent,
		},
		[]string{LabelFeature},
	)

	DailyCapRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDailyCapRejections,
			Help: HelpTextDailyCapRejections,
		},
	)

	InvariantViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInvariantViolations,
			Help: HelpTextInvariantViolations,
		},
		[]string{LabelComponent},
	)

	RepositoryRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRepositoryRetries,
			Help: HelpTextRepositoryRetries,
		},
		[]string{LabelOperation},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSweepDuration,
			Help:    HelpTextSweepDuration,
			Buckets: HTTPLatencyBuckets,
		},
	)

	ScheduledJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameScheduledJobs,
			Help: HelpTextScheduledJobs,
		},
		[]string{LabelJob, LabelResult},
	)

	EventLogDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEventLogDeleted,
			Help: HelpTextEventLogDeleted,
		},
	)
)
