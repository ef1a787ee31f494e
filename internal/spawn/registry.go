// Package spawn owns the spawn lifecycle:
// AVAILABLE → RESERVED → ARRIVED → COLLECTED, with EXPIRED reachable from any
// non-terminal state. Every transition is a compare-and-swap on state and
// version, so at most one player ever holds a spawn.
package spawn

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/utils"
)

// Registry manages spawn state transitions
type Registry struct {
	repo  repository.Spawn
	cfg   config.SpawnConfig
	rnd   func() float64
	cache *nearbyCache
}

// NewRegistry creates a registry. A cacheSize of 0 disables the nearby cache.
func NewRegistry(repo repository.Spawn, cfg config.SpawnConfig, rnd func() float64, cacheSize int, cacheTTL time.Duration) *Registry {
	if rnd == nil {
		rnd = utils.RandomFloat
	}
	return &Registry{
		repo:  repo,
		cfg:   cfg,
		rnd:   rnd,
		cache: newNearbyCache(cacheSize, cacheTTL),
	}
}

// Create registers a new AVAILABLE spawn
func (r *Registry) Create(ctx context.Context, req domain.NewSpawn, now time.Time) (*domain.Spawn, error) {
	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown spawn kind %q", domain.ErrInvalidInput, req.Kind)
	}
	if !geo.ValidCoordinate(req.Location.Lat, req.Location.Lng) {
		return nil, fmt.Errorf("%w: %v,%v", domain.ErrInvalidCoordinate, req.Location.Lat, req.Location.Lng)
	}

	rar := req.Rarity
	switch req.Kind {
	case domain.SpawnKindCreature:
		if !rar.IsValid() {
			return nil, fmt.Errorf("%w: creature needs a rarity, got %q", domain.ErrInvalidInput, rar)
		}
	case domain.SpawnKindEgg:
		// content is rolled at collection time
		rar = ""
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = r.cfg.DefaultTTL
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = r.cfg.DefaultMaxAttempts
	}

	sp := &domain.Spawn{
		ID:          uuid.New(),
		Kind:        req.Kind,
		Rarity:      rar,
		Location:    req.Location,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		State:       domain.SpawnStateAvailable,
		MaxAttempts: maxAttempts,
		Version:     1,
	}
	if err := r.repo.CreateSpawn(ctx, sp); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateSpawnFailed, err)
	}
	r.cache.Clear()

	logger.FromContext(ctx).Info(LogMsgSpawnCreated, "spawn_id", sp.ID, "kind", sp.Kind, "rarity", sp.Rarity)
	return sp, nil
}

// Reserve grants playerID an exclusive hold on the spawn until now plus the
// reservation window. Of several concurrent callers at most one succeeds;
// the rest get domain.ErrNotAvailable.
func (r *Registry) Reserve(ctx context.Context, spawnID uuid.UUID, playerID string, now time.Time) (*domain.ReservationResult, error) {
	sp, err := r.repo.GetSpawn(ctx, spawnID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSpawnFailed, err)
	}

	switch {
	case sp.State == domain.SpawnStateExpired:
		return nil, fmt.Errorf("%w: spawn %s", domain.ErrExpired, spawnID)
	case sp.State != domain.SpawnStateAvailable:
		return nil, fmt.Errorf("%w: spawn %s is %s", domain.ErrNotAvailable, spawnID, sp.State)
	case sp.IsPastExpiry(now):
		return nil, fmt.Errorf("%w: spawn %s", domain.ErrExpired, spawnID)
	}

	deadline := now.Add(r.cfg.ReservationWindow)
	updated := sp.Clone()
	updated.State = domain.SpawnStateReserved
	updated.Reservation = &domain.Reservation{
		HolderID:   playerID,
		ReservedAt: now,
		Deadline:   deadline,
	}
	// a reservation is never cut short by the despawn timer
	if deadline.After(updated.ExpiresAt) {
		updated.ExpiresAt = deadline
	}

	n, err := r.repo.UpdateSpawnIfMatches(ctx, updated, domain.SpawnStateAvailable, sp.Version)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateSpawnFailed, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: spawn %s was taken", domain.ErrNotAvailable, spawnID)
	}
	r.cache.Clear()

	logger.FromContext(ctx).Info(LogMsgSpawnReserved, "spawn_id", spawnID, "player_id", playerID, "deadline", deadline)
	return &domain.ReservationResult{
		SpawnID:          spawnID,
		HolderID:         playerID,
		ReservedAt:       now,
		Deadline:         deadline,
		SecondsRemaining: domain.SecondsUntil(deadline, now),
	}, nil
}

// CheckHolder validates that playerID holds a live reservation on sp.
// Stale holders get ErrReservationExpired, strangers ErrNotHolder.
func CheckHolder(sp *domain.Spawn, playerID string, now time.Time) error {
	if sp.HolderID() != playerID {
		return fmt.Errorf("%w: spawn %s", domain.ErrNotHolder, sp.ID)
	}
	switch {
	case sp.State == domain.SpawnStateCollected:
		return fmt.Errorf("%w: spawn %s already collected", domain.ErrNotAvailable, sp.ID)
	case sp.State == domain.SpawnStateExpired:
		return fmt.Errorf("%w: spawn %s", domain.ErrReservationExpired, sp.ID)
	case !sp.State.HasReservation():
		return fmt.Errorf("%w: spawn %s", domain.ErrNotHolder, sp.ID)
	case now.After(sp.Reservation.Deadline):
		return fmt.Errorf("%w: deadline was %s", domain.ErrReservationExpired, sp.Reservation.Deadline.Format(time.RFC3339))
	}
	return nil
}

// casMissError explains a lost compare-and-swap on a held spawn
func (r *Registry) casMissError(ctx context.Context, store repository.SpawnStore, id uuid.UUID, playerID string, now time.Time) error {
	sp, err := store.GetSpawn(ctx, id)
	if err != nil {
		return fmt.Errorf(ErrMsgGetSpawnFailed, err)
	}
	if err := CheckHolder(sp, playerID, now); err != nil {
		return err
	}
	return fmt.Errorf("%w: spawn %s", domain.ErrConcurrentUpdate, id)
}

// MarkArrived confirms the holder is within the catch radius and issues the
// randomized timing target. The deadline is not extended. Calling it again
// while ARRIVED re-checks the distance and returns the same target.
func (r *Registry) MarkArrived(ctx context.Context, spawnID uuid.UUID, playerID string, at domain.Location, now time.Time) (*domain.ArrivalResult, error) {
	if !geo.ValidCoordinate(at.Lat, at.Lng) {
		return nil, fmt.Errorf("%w: %v,%v", domain.ErrInvalidCoordinate, at.Lat, at.Lng)
	}

	sp, err := r.repo.GetSpawn(ctx, spawnID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSpawnFailed, err)
	}
	if err := CheckHolder(sp, playerID, now); err != nil {
		return nil, err
	}

	dist := geo.DistanceMeters(at.Lat, at.Lng, sp.Location.Lat, sp.Location.Lng)
	if dist > r.cfg.CatchRadiusMeters {
		return nil, fmt.Errorf("%w: %.0fm away, need %.0fm", domain.ErrTooFar, dist, r.cfg.CatchRadiusMeters)
	}

	if sp.State == domain.SpawnStateArrived {
		return arrivalResult(sp, dist), nil
	}

	updated := sp.Clone()
	updated.State = domain.SpawnStateArrived
	r.issueTarget(updated)

	n, err := r.repo.UpdateSpawnIfMatches(ctx, updated, domain.SpawnStateReserved, sp.Version)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateSpawnFailed, err)
	}
	if n == 0 {
		return nil, r.casMissError(ctx, r.repo, spawnID, playerID, now)
	}
	r.cache.Clear()

	logger.FromContext(ctx).Info(LogMsgSpawnArrived, "spawn_id", spawnID, "player_id", playerID, "distance_m", dist)
	return arrivalResult(updated, dist), nil
}

// issueTarget places a zone of the rarity's half-width uniformly inside [0, 1]
func (r *Registry) issueTarget(sp *domain.Spawn) {
	hw := r.cfg.TargetHalfWidth.Get(sp.Rarity)
	if sp.Kind == domain.SpawnKindEgg {
		hw = r.cfg.EggTargetHalfWidth
	}
	hw = utils.Clamp(hw, 0, 0.5)
	sp.Reservation.TargetHalfWidth = hw
	sp.Reservation.TargetCenter = hw + r.rnd()*(1-2*hw)
}

func arrivalResult(sp *domain.Spawn, dist float64) *domain.ArrivalResult {
	return &domain.ArrivalResult{
		SpawnID:         sp.ID,
		DistanceMeters:  dist,
		TargetCenter:    sp.Reservation.TargetCenter,
		TargetHalfWidth: sp.Reservation.TargetHalfWidth,
		Deadline:        sp.Reservation.Deadline,
	}
}

// FinalizeRequest describes the resolution of an attempt on a held spawn
type FinalizeRequest struct {
	Spawn     *domain.Spawn
	PlayerID  string
	Outcome   domain.CatchOutcome
	RewardRef *uuid.UUID
	// KeepHold leaves a failed spawn ARRIVED for the same holder
	KeepHold bool
	Now      time.Time
}

// Finalize applies a catch outcome through store, which is normally the
// transaction that also records the player's reward. It leaves the nearby
// cache alone; callers invalidate it once the transaction has committed.
//
// SUCCESS collects the spawn. FAIL counts a global attempt and either
// releases the spawn, keeps it for the holder, or expires it once
// MaxAttempts failures have accumulated.
func (r *Registry) Finalize(ctx context.Context, store repository.SpawnStore, req FinalizeRequest) (*domain.Spawn, error) {
	sp := req.Spawn
	if err := CheckHolder(sp, req.PlayerID, req.Now); err != nil {
		return nil, err
	}
	if sp.State != domain.SpawnStateArrived {
		return nil, fmt.Errorf("%w: spawn %s is %s", domain.ErrNotArrived, sp.ID, sp.State)
	}

	updated := sp.Clone()
	switch req.Outcome {
	case domain.OutcomeSuccess:
		updated.State = domain.SpawnStateCollected
		updated.RewardRef = req.RewardRef
	case domain.OutcomeFail:
		updated.Attempts++
		switch {
		case updated.MaxAttempts > 0 && updated.Attempts >= updated.MaxAttempts:
			updated.State = domain.SpawnStateExpired
		case req.KeepHold:
			// same holder, same target, same deadline
		default:
			updated.State = domain.SpawnStateAvailable
			updated.Reservation = nil
		}
	default:
		return nil, fmt.Errorf("%w: outcome %q", domain.ErrInvalidInput, req.Outcome)
	}

	n, err := store.UpdateSpawnIfMatches(ctx, updated, domain.SpawnStateArrived, sp.Version)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateSpawnFailed, err)
	}
	if n == 0 {
		return nil, r.casMissError(ctx, store, sp.ID, req.PlayerID, req.Now)
	}

	logger.FromContext(ctx).Info(LogMsgSpawnFinalized,
		"spawn_id", sp.ID,
		"player_id", req.PlayerID,
		"outcome", req.Outcome,
		"state", updated.State,
		"attempts", updated.Attempts)
	return updated, nil
}

// Abandon releases the holder's reservation. A spawn already past its
// despawn time expires instead of returning to AVAILABLE.
func (r *Registry) Abandon(ctx context.Context, spawnID uuid.UUID, playerID string, now time.Time) (*domain.Spawn, error) {
	sp, err := r.repo.GetSpawn(ctx, spawnID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetSpawnFailed, err)
	}
	if err := CheckHolder(sp, playerID, now); err != nil {
		return nil, err
	}

	updated := sp.Clone()
	updated.Reservation = nil
	updated.State = domain.SpawnStateAvailable
	if sp.IsPastExpiry(now) {
		updated.State = domain.SpawnStateExpired
	}

	n, err := r.repo.UpdateSpawnIfMatches(ctx, updated, sp.State, sp.Version)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateSpawnFailed, err)
	}
	if n == 0 {
		return nil, r.casMissError(ctx, r.repo, spawnID, playerID, now)
	}
	r.cache.Clear()

	logger.FromContext(ctx).Info(LogMsgSpawnAbandoned, "spawn_id", spawnID, "player_id", playerID, "state", updated.State)
	return updated, nil
}

// Sweep expires every non-terminal spawn past its despawn time and every
// held spawn past its reservation deadline. Returns the spawns as they were
// before expiring.
func (r *Registry) Sweep(ctx context.Context, now time.Time) ([]*domain.Spawn, error) {
	log := logger.FromContext(ctx)

	candidates, err := r.repo.ListSweepCandidates(ctx, now, sweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListSpawnsFailed, err)
	}

	expired := make([]*domain.Spawn, 0, len(candidates))
	for _, sp := range candidates {
		updated := sp.Clone()
		updated.State = domain.SpawnStateExpired

		n, err := r.repo.UpdateSpawnIfMatches(ctx, updated, sp.State, sp.Version)
		if err != nil {
			return expired, fmt.Errorf(ErrMsgUpdateSpawnFailed, err)
		}
		if n == 0 {
			log.Debug(LogMsgSweepCASConflict, "spawn_id", sp.ID)
			continue
		}
		expired = append(expired, sp)
	}

	if len(expired) > 0 {
		r.cache.Clear()
	}
	log.Debug(LogMsgSweepComplete, "candidates", len(candidates), "expired", len(expired))
	return expired, nil
}

// InvalidateNearby drops cached nearby listings after a committed change
func (r *Registry) InvalidateNearby() {
	r.cache.Clear()
}

// ClampRadius applies the default and maximum nearby radius
func (r *Registry) ClampRadius(radius float64) float64 {
	if radius <= 0 {
		return r.cfg.NearbyDefaultRadius
	}
	return min(radius, r.cfg.NearbyMaxRadius)
}

// ListNearby returns live spawns within radius of at, nearest first.
// Spawns held by other players are omitted; egg rarity is never exposed.
func (r *Registry) ListNearby(ctx context.Context, playerID string, at domain.Location, radius float64, now time.Time) ([]domain.NearbySpawn, error) {
	if !geo.ValidCoordinate(at.Lat, at.Lng) {
		return nil, fmt.Errorf("%w: %v,%v", domain.ErrInvalidCoordinate, at.Lat, at.Lng)
	}
	radius = r.ClampRadius(radius)

	candidates, err := r.candidates(ctx, at, radius, now)
	if err != nil {
		return nil, err
	}

	out := make([]domain.NearbySpawn, 0, len(candidates))
	for _, sp := range candidates {
		if !isLive(sp, now) {
			continue
		}
		held := sp.State.HasReservation()
		if held && sp.HolderID() != playerID {
			continue
		}
		dist := geo.DistanceMeters(at.Lat, at.Lng, sp.Location.Lat, sp.Location.Lng)
		if dist > radius {
			continue
		}
		ns := domain.NearbySpawn{
			ID:             sp.ID,
			Kind:           sp.Kind,
			Rarity:         sp.Rarity,
			Location:       sp.Location,
			State:          sp.State,
			DistanceMeters: dist,
			ExpiresAt:      sp.ExpiresAt,
			HeldByYou:      held,
		}
		if sp.Kind == domain.SpawnKindEgg {
			ns.Rarity = ""
		}
		out = append(out, ns)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	if len(out) > r.cfg.NearbyMaxResults {
		out = out[:r.cfg.NearbyMaxResults]
	}
	return out, nil
}

// NearestAvailable returns the closest AVAILABLE spawn within radius and its distance
func (r *Registry) NearestAvailable(ctx context.Context, at domain.Location, radius float64, now time.Time) (*domain.Spawn, float64, error) {
	if !geo.ValidCoordinate(at.Lat, at.Lng) {
		return nil, 0, fmt.Errorf("%w: %v,%v", domain.ErrInvalidCoordinate, at.Lat, at.Lng)
	}
	candidates, err := r.candidates(ctx, at, radius, now)
	if err != nil {
		return nil, 0, err
	}

	var best *domain.Spawn
	bestDist := radius
	for _, sp := range candidates {
		if sp.State != domain.SpawnStateAvailable || sp.IsPastExpiry(now) {
			continue
		}
		dist := geo.DistanceMeters(at.Lat, at.Lng, sp.Location.Lat, sp.Location.Lng)
		if dist <= bestDist {
			best, bestDist = sp, dist
		}
	}
	if best == nil {
		return nil, 0, fmt.Errorf("%w: within %.0fm", domain.ErrNoSpawnsNearby, radius)
	}
	return best.Clone(), bestDist, nil
}

// candidates fetches spawns in the query's bounding box, through the cache
func (r *Registry) candidates(ctx context.Context, at domain.Location, radius float64, now time.Time) ([]*domain.Spawn, error) {
	key := cellKey(at.Lat, at.Lng, radius)
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	bounds := geo.BoundsAround(geo.Point{Lat: at.Lat, Lng: at.Lng}, radius+cellMarginMeters)
	spawns, err := r.repo.ListSpawnsInBounds(ctx, bounds, now)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListSpawnsFailed, err)
	}
	r.cache.Set(key, spawns)
	return spawns, nil
}

func isLive(sp *domain.Spawn, now time.Time) bool {
	return !sp.State.IsTerminal() && !sp.IsPastExpiry(now) && !sp.IsReservationLapsed(now)
}
