package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
)

// mockBus is a test double for event.Bus
type mockBus struct {
	mu           sync.Mutex
	calls        []Event
	attemptTimes []time.Time
	shouldFail   func(attempt int) bool
	publishDelay time.Duration
}

func (m *mockBus) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	m.calls = append(m.calls, event)
	m.attemptTimes = append(m.attemptTimes, time.Now())
	callCount := len(m.calls)
	m.mu.Unlock()

	if m.publishDelay > 0 {
		time.Sleep(m.publishDelay)
	}

	if m.shouldFail != nil && m.shouldFail(callCount) {
		return errors.New("mock publish error")
	}
	return nil
}

func (m *mockBus) Subscribe(eventType Type, handler Handler) {}

func (m *mockBus) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockBus) AttemptTimes() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time{}, m.attemptTimes...)
}

func TestResilientPublisher_SuccessfulPublish(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{}

	rp, err := NewResilientPublisher(bus, 3, 100*time.Millisecond, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	require.NoError(t, rp.Publish(context.Background(), NewLevelUpEvent("p1", 1, 2)))

	assert.Equal(t, 1, bus.CallCount())
	content, _ := os.ReadFile(path)
	assert.Empty(t, content)
}

func TestResilientPublisher_RetrySuccess(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{
		shouldFail: func(attempt int) bool { return attempt == 1 },
	}

	rp, err := NewResilientPublisher(bus, 3, 50*time.Millisecond, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), NewSpawnAbandonedEvent("s1", "p1"))

	assert.Eventually(t, func() bool { return bus.CallCount() == 2 }, time.Second, 10*time.Millisecond)
	content, _ := os.ReadFile(path)
	assert.Empty(t, content)
}

func TestResilientPublisher_RetryExhaustionWritesDeadLetter(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{
		shouldFail: func(attempt int) bool { return true },
	}

	rp, err := NewResilientPublisher(bus, 3, 20*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), NewWarmthSpentEvent("p1", &domain.SpendResult{Feature: domain.FeatureHeatMode, Cost: 6}))

	// initial attempt plus three retries
	assert.Eventually(t, func() bool { return bus.CallCount() == 4 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, WarmthSpent, entry.Event.Type)
	assert.Equal(t, 4, entry.Attempts)
	assert.NotEmpty(t, entry.LastError)
	assert.Equal(t, DeadLetterSchemaVersion, entry.SchemaVersion)
}

func TestResilientPublisher_ExponentialBackoff(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{
		shouldFail: func(attempt int) bool { return attempt < 4 },
	}

	base := 100 * time.Millisecond
	rp, err := NewResilientPublisher(bus, 5, base, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), NewLevelUpEvent("p1", 3, 4))

	require.Eventually(t, func() bool { return bus.CallCount() >= 3 }, 2*time.Second, 10*time.Millisecond)

	times := bus.AttemptTimes()
	assert.InDelta(t, base.Milliseconds(), times[1].Sub(times[0]).Milliseconds(), 50)
	assert.InDelta(t, (2 * base).Milliseconds(), times[2].Sub(times[1]).Milliseconds(), 50)
}

func TestResilientPublisher_QueueOverflowGoesToDeadLetter(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"
	bus := &mockBus{
		shouldFail: func(attempt int) bool { return true },
	}

	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	// no worker: the queue only fills
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 2),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	for i := 0; i < 5; i++ {
		rp.PublishWithRetry(context.Background(), NewSpawnAbandonedEvent("s", "p"))
	}
	require.NoError(t, dl.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := 0
	for _, b := range content {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, 3, lines)
	assert.Len(t, rp.retryQueue, 2)
}

func TestResilientPublisher_ShutdownDrainsQueue(t *testing.T) {
	path := t.TempDir() + "/deadletter.jsonl"

	var failures int32
	bus := &mockBus{
		shouldFail: func(attempt int) bool {
			return atomic.AddInt32(&failures, 1) <= 2
		},
	}

	rp, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rp.PublishWithRetry(context.Background(), NewSpawnAbandonedEvent("s", "p"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	// 3 initial attempts plus one final attempt for each of the 2 queued
	assert.Equal(t, 5, bus.CallCount())
	content, _ := os.ReadFile(path)
	assert.Empty(t, content)
}
