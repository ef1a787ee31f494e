// Package hunt is the entry point the transport layer talks to. It
// composes the spawn registry, catch resolver and progression ledger and
// owns the transaction that makes a catch attempt atomic.
package hunt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/catch"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/concurrency"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/progression"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/spawn"
)

// Service defines the hunt operations exposed to clients and admins
type Service interface {
	ListNearbySpawns(ctx context.Context, playerID string, at domain.Location, radius float64) ([]domain.NearbySpawn, error)
	ReserveSpawn(ctx context.Context, playerID string, spawnID uuid.UUID) (*domain.ReservationResult, error)
	ArriveAtSpawn(ctx context.Context, playerID string, spawnID uuid.UUID, at domain.Location) (*domain.ArrivalResult, error)
	AttemptCatch(ctx context.Context, playerID string, spawnID uuid.UUID, timingInput float64) (*domain.CatchResult, error)
	AbandonSpawn(ctx context.Context, playerID string, spawnID uuid.UUID) error
	GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error)

	// SpendWarmth pays for a feature. A tracker ping needs the player's
	// location and fails with ErrNoSpawnsNearby, spending nothing, when
	// no spawn is in range.
	SpendWarmth(ctx context.Context, playerID string, feature domain.Feature, at *domain.Location) (*domain.SpendResult, error)

	ListCatches(ctx context.Context, playerID string, limit int) ([]domain.CatchRecord, error)

	// Admin and background operations
	CreateSpawn(ctx context.Context, req domain.NewSpawn) (*domain.Spawn, error)
	SweepExpired(ctx context.Context) (int, error)
}

// Option configures the service
type Option func(*service)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo        repository.Hunt
	registry    *spawn.Registry
	resolver    *catch.Resolver
	progression progression.Service
	ledger      *progression.Ledger
	locks       *concurrency.LockManager
	bus         event.Bus
	now         func() time.Time
}

// NewService creates the hunt facade. locks must be the same manager the
// progression service serializes on.
func NewService(
	repo repository.Hunt,
	registry *spawn.Registry,
	resolver *catch.Resolver,
	progressionSvc progression.Service,
	locks *concurrency.LockManager,
	bus event.Bus,
	opts ...Option,
) Service {
	s := &service{
		repo:        repo,
		registry:    registry,
		resolver:    resolver,
		progression: progressionSvc,
		ledger:      progressionSvc.Ledger(),
		locks:       locks,
		bus:         bus,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validatePlayer(playerID string) error {
	if strings.TrimSpace(playerID) == "" {
		return fmt.Errorf(ErrMsgPlayerIDRequired, domain.ErrInvalidInput)
	}
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event", evt.Type, "error", err)
	}
}

func resultLabel(err error) string {
	if err != nil {
		return metrics.ResultError
	}
	return metrics.ResultOK
}

// ListNearbySpawns returns live spawns around the player, nearest first
func (s *service) ListNearbySpawns(ctx context.Context, playerID string, at domain.Location, radius float64) ([]domain.NearbySpawn, error) {
	if err := validatePlayer(playerID); err != nil {
		return nil, err
	}
	return s.registry.ListNearby(ctx, playerID, at, radius, s.now())
}

// ReserveSpawn grants the player an exclusive hold on the spawn
func (s *service) ReserveSpawn(ctx context.Context, playerID string, spawnID uuid.UUID) (*domain.ReservationResult, error) {
	if err := validatePlayer(playerID); err != nil {
		return nil, err
	}
	res, err := s.registry.Reserve(ctx, spawnID, playerID, s.now())
	metrics.Reservations.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.NewSpawnReservedEvent(res))
	return res, nil
}

// ArriveAtSpawn confirms the holder is in catch range
func (s *service) ArriveAtSpawn(ctx context.Context, playerID string, spawnID uuid.UUID, at domain.Location) (*domain.ArrivalResult, error) {
	if err := validatePlayer(playerID); err != nil {
		return nil, err
	}
	res, err := s.registry.MarkArrived(ctx, spawnID, playerID, at, s.now())
	metrics.Arrivals.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.NewSpawnArrivedEvent(playerID, res))
	return res, nil
}

// AbandonSpawn releases the player's hold
func (s *service) AbandonSpawn(ctx context.Context, playerID string, spawnID uuid.UUID) error {
	if err := validatePlayer(playerID); err != nil {
		return err
	}
	if _, err := s.registry.Abandon(ctx, spawnID, playerID, s.now()); err != nil {
		return err
	}
	s.publish(ctx, event.NewSpawnAbandonedEvent(spawnID.String(), playerID))
	return nil
}

// GetProgress returns the player's progression record
func (s *service) GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	if err := validatePlayer(playerID); err != nil {
		return nil, err
	}
	return s.progression.GetProgress(ctx, playerID)
}

// SpendWarmth spends warmth on a feature
func (s *service) SpendWarmth(ctx context.Context, playerID string, feature domain.Feature, at *domain.Location) (*domain.SpendResult, error) {
	if err := validatePlayer(playerID); err != nil {
		return nil, err
	}
	if feature != domain.FeatureTrackerPing {
		return s.progression.SpendWarmth(ctx, playerID, feature)
	}

	if at == nil {
		return nil, fmt.Errorf(ErrMsgLocationRequired, domain.ErrInvalidInput)
	}
	target, dist, err := s.registry.NearestAvailable(ctx, *at, s.ledger.TrackerRadius(), s.now())
	if err != nil {
		return nil, err
	}

	res, err := s.progression.SpendWarmth(ctx, playerID, feature)
	if err != nil {
		return nil, err
	}
	res.Ping = &domain.TrackerPing{
		SpawnID:        target.ID.String(),
		DistanceMeters: dist,
		BearingDegrees: geo.BearingDegrees(at.Lat, at.Lng, target.Location.Lat, target.Location.Lng),
	}
	logger.FromContext(ctx).Info(LogMsgTrackerPing, "player_id", playerID, "spawn_id", target.ID, "distance_m", dist)
	return res, nil
}

// ListCatches returns the player's most recent catch records
func (s *service) ListCatches(ctx context.Context, playerID string, limit int) ([]domain.CatchRecord, error) {
	if err := validatePlayer(playerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = catchHistoryDefaultLimit
	}
	limit = min(limit, catchHistoryMaxLimit)

	records, err := s.repo.ListCatchRecords(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListCatchesFailed, err)
	}
	return records, nil
}

// CreateSpawn registers a spawn from the spawn-generation process
func (s *service) CreateSpawn(ctx context.Context, req domain.NewSpawn) (*domain.Spawn, error) {
	return s.registry.Create(ctx, req, s.now())
}

// SweepExpired expires stale spawns and lapsed reservations
func (s *service) SweepExpired(ctx context.Context) (int, error) {
	start := time.Now()
	expired, err := s.registry.Sweep(ctx, s.now())
	metrics.SweepDuration.Observe(time.Since(start).Seconds())

	for _, before := range expired {
		s.publish(ctx, event.NewSpawnExpiredEvent(before))
	}
	if len(expired) > 0 {
		logger.FromContext(ctx).Info(LogMsgSweepExpiredSpawns, "count", len(expired))
	}
	return len(expired), err
}
