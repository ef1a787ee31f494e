package eventlog

import (
	"context"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
)

// CleanupJob is a job that cleans up old events
type CleanupJob struct {
	service   Service
	retention time.Duration
}

// NewCleanupJob creates a new cleanup job
func NewCleanupJob(service Service, retention time.Duration) *CleanupJob {
	return &CleanupJob{
		service:   service,
		retention: retention,
	}
}

func (j *CleanupJob) Name() string {
	return CleanupJobName
}

// Process executes the cleanup job
func (j *CleanupJob) Process(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, CleanupJobTimeout)
	defer cancel()

	log := logger.FromContext(ctx)
	log.Info(LogMsgCleanupJobStarting, LogFieldRetention, j.retention)

	start := time.Now()
	count, err := j.service.CleanupOldEvents(ctx, j.retention)
	duration := time.Since(start)

	if err != nil {
		log.Error(LogMsgCleanupJobFailed, LogFieldError, err, LogFieldDuration, duration)
		return err
	}

	metrics.EventLogDeleted.Add(float64(count))
	log.Info(LogMsgCleanupJobCompleted, LogFieldDeletedCount, count, LogFieldDuration, duration)
	return nil
}
