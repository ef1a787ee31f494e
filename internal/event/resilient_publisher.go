package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
)

// retryEntry is an event waiting for another publish attempt
type retryEntry struct {
	event    Event
	attempts int
	nextAt   time.Time
	bo       backoff.BackOff
	lastErr  error
}

// ResilientPublisher wraps an Event Bus to add retry logic and dead letter queuing.
// Failed events are retried with exponential backoff on a single worker;
// exhausted or overflowing events go to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// Publish implements Bus. The event is accepted even if the first attempt
// fails, so callers are never blocked by a flaky subscriber.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

// PublishWithRetry publishes once and queues the event for retry on failure
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	bo := p.newBackOff()
	entry := retryEntry{
		event:    event,
		attempts: 1,
		bo:       bo,
		lastErr:  err,
	}
	entry.nextAt = time.Now().Add(bo.NextBackOff())
	p.enqueue(entry)
}

func (p *ResilientPublisher) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retryDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = p.retryDelay * time.Duration(1<<RetryMaxAttempts)
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(max(p.maxRetries, 0)))
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-p.shutdown:
		p.writeDeadLetter(entry, LogMsgEventDroppedShutdown)
		return
	default:
	}

	select {
	case p.retryQueue <- entry:
	default:
		p.writeDeadLetter(entry, LogMsgRetryQueueFull)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drain()
			return
		case entry := <-p.retryQueue:
			if !p.waitUntil(entry.nextAt) {
				p.attemptFinal(entry)
				p.drain()
				return
			}
			p.attempt(entry)
		}
	}
}

// waitUntil sleeps until t; returns false if shutdown interrupted the wait
func (p *ResilientPublisher) waitUntil(t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-p.shutdown:
		return false
	}
}

func (p *ResilientPublisher) attempt(entry retryEntry) {
	ctx := context.Background()
	entry.attempts++
	err := p.bus.Publish(ctx, entry.event)
	if err == nil {
		logger.FromContext(ctx).Info(LogMsgEventRetrySucceeded,
			"event_type", entry.event.Type,
			"attempt", entry.attempts)
		return
	}
	entry.lastErr = err

	next := entry.bo.NextBackOff()
	if next == backoff.Stop {
		p.writeDeadLetter(entry, LogMsgEventRetryExhausted)
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventRetryFailed,
		"event_type", entry.event.Type,
		"attempt", entry.attempts,
		"next_in", next,
		"error", err)
	entry.nextAt = time.Now().Add(next)
	p.enqueue(entry)
}

// attemptFinal makes one last publish attempt during shutdown
func (p *ResilientPublisher) attemptFinal(entry retryEntry) {
	entry.attempts++
	if err := p.bus.Publish(context.Background(), entry.event); err != nil {
		entry.lastErr = err
		p.writeDeadLetter(entry, LogMsgEventDroppedShutdown)
	}
}

func (p *ResilientPublisher) drain() {
	n := 0
	for {
		select {
		case entry := <-p.retryQueue:
			p.attemptFinal(entry)
			n++
		default:
			if n > 0 {
				logger.FromContext(context.Background()).Info(LogMsgQueueDrainedShutdown, "count", n)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(entry retryEntry, reason string) {
	log := logger.FromContext(context.Background())
	log.Warn(reason, "event_type", entry.event.Type, "attempts", entry.attempts)
	if p.deadLetter == nil {
		return
	}
	lastErr := entry.lastErr
	if lastErr == nil {
		lastErr = errors.New(reason)
	}
	if err := p.deadLetter.Write(entry.event, entry.attempts, lastErr); err != nil {
		log.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the retry worker after giving queued events one final
// attempt, then closes the dead-letter file.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	if p.deadLetter != nil {
		return p.deadLetter.Close()
	}
	return nil
}
