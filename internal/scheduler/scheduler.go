// Package scheduler runs background jobs (expiry sweep, event log
// retention) on fixed intervals through the shared worker pool.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/worker"
)

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Scheduler enqueues jobs onto a worker pool at fixed intervals
type Scheduler struct {
	pool     Enqueuer
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new scheduler
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule registers a job to run every interval, starting one interval from
// now. A tick that finds the pool queue full is skipped, not queued up, so a
// slow job never piles up behind itself. A non-positive interval disables
// the job.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	log := logger.FromContext(context.Background())
	if interval <= 0 {
		log.Warn("Scheduled job disabled", "job", job.Name(), "interval", interval)
		return
	}
	log.Info("Scheduled job registered", "job", job.Name(), "interval", interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				result := metrics.JobResultEnqueued
				if !s.pool.Enqueue(job) {
					result = metrics.JobResultSkipped
				}
				metrics.ScheduledJobs.WithLabelValues(job.Name(), result).Inc()
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
