// Package eventlog persists hunt events for support and analytics queries
// and prunes them after a retention period.
package eventlog

import (
	"context"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// LoggedEventTypes are the event types written to the log
var LoggedEventTypes = []event.Type{
	event.SpawnReserved,
	event.SpawnArrived,
	event.SpawnAbandoned,
	event.SpawnExpired,
	event.CatchResolved,
	event.LevelUp,
	event.WarmthSpent,
	event.DailyResetComplete,
}

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger on every logged event type
	Subscribe(bus event.Bus) error

	// GetEvents returns logged events, newest first. The limit is clamped
	// to [1, MaxQueryLimit] with DefaultQueryLimit for zero.
	GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error)

	// CleanupOldEvents removes events older than retention
	CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo repository.EventLog
	now  func() time.Time
}

// NewService creates a new event logging service
func NewService(repo repository.EventLog) Service {
	return &service{repo: repo, now: time.Now}
}

// Subscribe registers event handlers for all logged event types
func (s *service) Subscribe(bus event.Bus) error {
	for _, eventType := range LoggedEventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
	logger.FromContext(context.Background()).Info(LogMsgSubscribed, LogFieldEventTypes, len(LoggedEventTypes))
	return nil
}

// handleEvent flattens the typed payload to a JSON object and stores it
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil || payload == nil {
		log.Debug(LogMsgEventPayloadNotMap, LogFieldType, evt.Type)
		return nil
	}

	var playerID *string
	for _, key := range []string{PayloadKeyPlayerID, PayloadKeyHolderID} {
		if id, ok := payload[key].(string); ok && id != "" {
			playerID = &id
			break
		}
	}

	metadata, _ := evt.Metadata.(map[string]interface{})

	if err := s.repo.LogEvent(ctx, string(evt.Type), playerID, payload, metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldPlayerID, playerID)
	return nil
}

func (s *service) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultQueryLimit
	case filter.Limit > MaxQueryLimit:
		filter.Limit = MaxQueryLimit
	}
	return s.repo.GetEvents(ctx, filter)
}

func (s *service) CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, s.now().Add(-retention))
}
