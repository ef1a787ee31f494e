package worker

import (
	"context"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
)

// Sweeper expires stale spawns and lapsed reservations
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// SweepJob runs one expiry sweep. It is scheduled at a fixed interval.
type SweepJob struct {
	sweeper Sweeper
	timeout time.Duration
}

// NewSweepJob creates a sweep job bounded by DefaultSweepTimeout
func NewSweepJob(sweeper Sweeper) *SweepJob {
	return &SweepJob{sweeper: sweeper, timeout: DefaultSweepTimeout}
}

func (j *SweepJob) Name() string {
	return SweepJobName
}

func (j *SweepJob) Process(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	n, err := j.sweeper.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Debug(LogMsgWorkerJobSucceeded, "job", SweepJobName, "expired", n)
	}
	return nil
}
