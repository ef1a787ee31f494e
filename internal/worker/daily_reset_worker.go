package worker

import (
	"context"
	"sync"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
)

// DailyResetter zeroes stale daily catch counters
type DailyResetter interface {
	ResetDailyCounts(ctx context.Context) (int64, error)
}

// Publisher is the part of event.ResilientPublisher the worker needs
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// DailyResetWorker resets daily catch counters at local midnight of the
// configured time zone. Players are also rolled over lazily on their next
// request, so a missed run only delays the bulk cleanup.
type DailyResetWorker struct {
	resetter  DailyResetter
	publisher Publisher
	location  *time.Location
	now       func() time.Time
	timer     *time.Timer
	shutdown  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
}

// NewDailyResetWorker creates a new DailyResetWorker. publisher may be nil.
func NewDailyResetWorker(resetter DailyResetter, publisher Publisher, location *time.Location) *DailyResetWorker {
	if location == nil {
		location = time.UTC
	}
	return &DailyResetWorker{
		resetter:  resetter,
		publisher: publisher,
		location:  location,
		now:       time.Now,
		shutdown:  make(chan struct{}),
	}
}

// Start initializes the worker and schedules the first reset
func (w *DailyResetWorker) Start() {
	w.scheduleNext()
}

// scheduleNext calculates the time until the next local midnight and schedules the reset
func (w *DailyResetWorker) scheduleNext() {
	duration := timeUntilNextReset(w.now(), w.location)
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	select {
	case <-w.shutdown:
		w.mu.Unlock()
		return
	default:
	}
	if w.timer != nil {
		w.timer.Stop()
	}

	// Two-stage scheduling keeps an early timer from rescheduling in a tight loop
	if duration > dailyResetStandbyThreshold {
		waitDuration := duration - dailyResetStandbyLead
		w.timer = time.AfterFunc(waitDuration, w.scheduleNext)
		w.mu.Unlock()

		log.Info(LogMsgDailyResetStandby, "next_check_at", w.now().UTC().Add(waitDuration))
		return
	}

	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// Fired early: wait out the remainder. More than 23h left means we
		// are on time or slightly late.
		rem := timeUntilNextReset(w.now(), w.location)
		if rem > dailyResetJitterTolerance && rem < 23*time.Hour {
			w.scheduleNext()
			return
		}

		w.executeReset()
		w.scheduleNext()
	})
	w.mu.Unlock()

	log.Info(LogMsgDailyResetApproach, "next_reset_at", w.now().UTC().Add(duration))
}

// executeReset performs the daily reset in a tracked goroutine
func (w *DailyResetWorker) executeReset() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), dailyResetTimeout)
		defer cancel()
		_, _ = w.RunOnce(ctx)
	}()
}

// RunOnce performs a reset synchronously and publishes daily_reset.complete
func (w *DailyResetWorker) RunOnce(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDailyResetStarting)

	recordsAffected, err := w.resetter.ResetDailyCounts(ctx)
	if err != nil {
		log.Error(LogMsgDailyResetFailed, "error", err)
		return 0, err
	}
	log.Info(LogMsgDailyResetCompleted, "records_affected", recordsAffected)

	if w.publisher != nil {
		w.publisher.PublishWithRetry(ctx, event.NewDailyResetCompleteEvent(w.now().UTC(), recordsAffected))
	}
	return recordsAffected, nil
}

// Shutdown cancels the pending timer and waits for any in-flight reset
func (w *DailyResetWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down daily reset worker")

	w.mu.Lock()
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Daily reset worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Daily reset worker shutdown timeout, a reset may still be running")
		return ctx.Err()
	}
}

// timeUntilNextReset returns the duration from now until the next midnight in loc
func timeUntilNextReset(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
