package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// EventLog keeps logged events in a slice. It has its own lock so event
// handlers may run while a hunt transaction holds the store lock.
type EventLog struct {
	mu     sync.RWMutex
	nextID int64
	events []repository.EventLogEntry
	now    func() time.Time
}

// NewEventLog creates an empty event log
func NewEventLog() *EventLog {
	return &EventLog{now: time.Now}
}

var _ repository.EventLog = (*EventLog)(nil)

func (l *EventLog) LogEvent(ctx context.Context, eventType string, playerID *string, payload, metadata map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	entry := repository.EventLogEntry{
		ID:        l.nextID,
		EventType: eventType,
		Payload:   payload,
		Metadata:  metadata,
		CreatedAt: l.now(),
	}
	if playerID != nil {
		id := *playerID
		entry.PlayerID = &id
	}
	l.events = append(l.events, entry)
	return nil
}

// GetEvents returns matching events newest first
func (l *EventLog) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []repository.EventLogEntry{}
	for i := len(l.events) - 1; i >= 0; i-- {
		e := l.events[i]
		if filter.PlayerID != nil && (e.PlayerID == nil || *e.PlayerID != *filter.PlayerID) {
			continue
		}
		if filter.EventType != nil && e.EventType != *filter.EventType {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && e.CreatedAt.After(*filter.Until) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (l *EventLog) CleanupOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.events[:0]
	for _, e := range l.events {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := int64(len(l.events) - len(kept))
	l.events = kept
	return removed, nil
}
