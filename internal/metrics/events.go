package metrics

import (
	"context"
	"strconv"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all hunt events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.SpawnReserved,
		event.SpawnArrived,
		event.SpawnAbandoned,
		event.SpawnExpired,
		event.CatchResolved,
		event.LevelUp,
		event.WarmthSpent,
		event.DailyResetComplete,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.CatchResolved:
		var p event.CatchResolvedPayloadV1
		if p, err = event.DecodePayload[event.CatchResolvedPayloadV1](evt.Payload); err == nil {
			CatchAttempts.WithLabelValues(p.Rarity, p.Quality, p.Outcome).Inc()
			CatchProbability.Observe(p.SuccessProbability)
		}
	case event.SpawnExpired:
		var p event.SpawnExpiredPayloadV1
		if p, err = event.DecodePayload[event.SpawnExpiredPayloadV1](evt.Payload); err == nil {
			SpawnsExpired.WithLabelValues(p.PreviousState).Inc()
		}
	case event.LevelUp:
		var p event.LevelUpPayloadV1
		if p, err = event.DecodePayload[event.LevelUpPayloadV1](evt.Payload); err == nil {
			LevelUps.WithLabelValues(strconv.Itoa(p.NewLevel)).Inc()
		}
	case event.WarmthSpent:
		var p event.WarmthSpentPayloadV1
		if p, err = event.DecodePayload[event.WarmthSpentPayloadV1](evt.Payload); err == nil {
			WarmthSpent.WithLabelValues(p.Feature).Add(float64(p.Cost))
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
	}
	return nil
}
