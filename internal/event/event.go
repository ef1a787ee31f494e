package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Hunt event types
const (
	SpawnReserved      Type = domain.EventTypeSpawnReserved
	SpawnArrived       Type = domain.EventTypeSpawnArrived
	SpawnAbandoned     Type = domain.EventTypeSpawnAbandoned
	SpawnExpired       Type = domain.EventTypeSpawnExpired
	CatchResolved      Type = domain.EventTypeCatchResolved
	LevelUp            Type = domain.EventTypeLevelUp
	WarmthSpent        Type = domain.EventTypeWarmthSpent
	DailyResetComplete Type = domain.EventTypeDailyResetComplete
)

// Typed event payloads for type safety

// SpawnReservedPayloadV1 is the typed payload for reservation events
type SpawnReservedPayloadV1 struct {
	SpawnID  string    `json:"spawn_id"`
	PlayerID string    `json:"player_id"`
	Deadline time.Time `json:"deadline"`
}

// SpawnArrivedPayloadV1 is the typed payload for arrival events
type SpawnArrivedPayloadV1 struct {
	SpawnID        string  `json:"spawn_id"`
	PlayerID       string  `json:"player_id"`
	DistanceMeters float64 `json:"distance_meters"`
}

// SpawnAbandonedPayloadV1 is the typed payload for abandon events
type SpawnAbandonedPayloadV1 struct {
	SpawnID  string `json:"spawn_id"`
	PlayerID string `json:"player_id"`
}

// SpawnExpiredPayloadV1 is the typed payload for sweep expiries
type SpawnExpiredPayloadV1 struct {
	SpawnID       string `json:"spawn_id"`
	PreviousState string `json:"previous_state"`
	HolderID      string `json:"holder_id,omitempty"`
}

// CatchResolvedPayloadV1 is the typed payload for resolved catch attempts
type CatchResolvedPayloadV1 struct {
	CatchID            string  `json:"catch_id"`
	SpawnID            string  `json:"spawn_id"`
	PlayerID           string  `json:"player_id"`
	SpawnKind          string  `json:"spawn_kind"`
	Rarity             string  `json:"rarity,omitempty"`
	Quality            string  `json:"quality"`
	Outcome            string  `json:"outcome"`
	SuccessProbability float64 `json:"success_probability"`
	XPAwarded          int64   `json:"xp_awarded"`
	PointsAwarded      int64   `json:"points_awarded"`
}

// LevelUpPayloadV1 is the typed payload for level up events
type LevelUpPayloadV1 struct {
	PlayerID string `json:"player_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// WarmthSpentPayloadV1 is the typed payload for warmth spend events
type WarmthSpentPayloadV1 struct {
	PlayerID  string `json:"player_id"`
	Feature   string `json:"feature"`
	Cost      int    `json:"cost"`
	Remaining int    `json:"remaining"`
}

// DailyResetCompletePayloadV1 is the typed payload for daily reset complete events
type DailyResetCompletePayloadV1 struct {
	ResetTime       time.Time `json:"reset_time"`
	RecordsAffected int64     `json:"records_affected"`
}

// Type-safe event constructors

// NewSpawnReservedEvent creates a reservation event
func NewSpawnReservedEvent(r *domain.ReservationResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpawnReserved,
		Payload: SpawnReservedPayloadV1{
			SpawnID:  r.SpawnID.String(),
			PlayerID: r.HolderID,
			Deadline: r.Deadline,
		},
	}
}

// NewSpawnArrivedEvent creates an arrival event
func NewSpawnArrivedEvent(playerID string, a *domain.ArrivalResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpawnArrived,
		Payload: SpawnArrivedPayloadV1{
			SpawnID:        a.SpawnID.String(),
			PlayerID:       playerID,
			DistanceMeters: a.DistanceMeters,
		},
	}
}

// NewSpawnAbandonedEvent creates an abandon event
func NewSpawnAbandonedEvent(spawnID, playerID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpawnAbandoned,
		Payload: SpawnAbandonedPayloadV1{SpawnID: spawnID, PlayerID: playerID},
	}
}

// NewSpawnExpiredEvent creates an expiry event for a spawn as it was
// before the sweep touched it
func NewSpawnExpiredEvent(before *domain.Spawn) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpawnExpired,
		Payload: SpawnExpiredPayloadV1{
			SpawnID:       before.ID.String(),
			PreviousState: string(before.State),
			HolderID:      before.HolderID(),
		},
	}
}

// NewCatchResolvedEvent creates a catch event
func NewCatchResolvedEvent(kind domain.SpawnKind, r *domain.CatchResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CatchResolved,
		Payload: CatchResolvedPayloadV1{
			CatchID:            r.CatchID.String(),
			SpawnID:            r.SpawnID.String(),
			PlayerID:           r.PlayerID,
			SpawnKind:          string(kind),
			Rarity:             string(r.Rarity),
			Quality:            string(r.Quality),
			Outcome:            string(r.Outcome),
			SuccessProbability: r.SuccessProbability,
			XPAwarded:          r.XPAwarded,
			PointsAwarded:      r.PointsAwarded,
		},
		Metadata: map[string]interface{}{
			"source": "catch",
		},
	}
}

// NewLevelUpEvent creates a level up event
func NewLevelUpEvent(playerID string, oldLevel, newLevel int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: LevelUpPayloadV1{
			PlayerID: playerID,
			OldLevel: oldLevel,
			NewLevel: newLevel,
		},
	}
}

// NewWarmthSpentEvent creates a warmth spend event
func NewWarmthSpentEvent(playerID string, r *domain.SpendResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WarmthSpent,
		Payload: WarmthSpentPayloadV1{
			PlayerID:  playerID,
			Feature:   string(r.Feature),
			Cost:      r.Cost,
			Remaining: r.WarmthRemaining,
		},
	}
}

// NewDailyResetCompleteEvent creates a new daily reset complete event
func NewDailyResetCompleteEvent(resetTime time.Time, recordsAffected int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DailyResetComplete,
		Payload: DailyResetCompletePayloadV1{
			ResetTime:       resetTime,
			RecordsAffected: recordsAffected,
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously in subscription order
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
