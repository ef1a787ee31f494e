package hunt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/catch"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/concurrency"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/database/memory"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/progression"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/rarity"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/spawn"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/utils"
)

var (
	t0   = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	here = domain.Location{Lat: 40.7580, Lng: -73.9855}
)

type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(_ context.Context, e event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) OfType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	svc    Service
	store  *memory.Store
	bus    *recordingBus
	ledger *progression.Ledger
	now    time.Time
}

// newTestEnv wires the facade over the memory store. successDraw is the
// resolver's draw: 0 always succeeds, 0.999 always fails.
func newTestEnv(t *testing.T, successDraw float64) *testEnv {
	t.Helper()
	return newCachedTestEnv(t, successDraw, 0)
}

// newCachedTestEnv is newTestEnv with a nearby cache of cacheSize entries
func newCachedTestEnv(t *testing.T, successDraw float64, cacheSize int) *testEnv {
	t.Helper()
	econ := config.DefaultEconomy()
	store := memory.NewStore()
	bus := &recordingBus{}
	locks := concurrency.NewLockManager()

	env := &testEnv{store: store, bus: bus, now: t0}
	clock := func() time.Time { return env.now }

	ledger := progression.NewLedger(econ.Progression, time.UTC)
	progressionSvc := progression.NewService(store, ledger, locks, bus, progression.WithClock(clock))
	registry := spawn.NewRegistry(store, econ.Spawn, utils.FixedRandom(0.5), cacheSize, time.Minute)
	roller := rarity.NewRoller(econ.Rarity, utils.FixedRandom(0))
	resolver := catch.NewResolver(econ.Catch, roller, utils.FixedRandom(successDraw))

	env.ledger = ledger
	env.svc = NewService(store, registry, resolver, progressionSvc, locks, bus, WithClock(clock))
	return env
}

func (e *testEnv) seedProgress(t *testing.T, p *domain.PlayerProgress) {
	t.Helper()
	ctx := context.Background()
	tx, err := e.store.BeginHuntTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveProgress(ctx, p))
	require.NoError(t, tx.Commit(ctx))
}

func (e *testEnv) progressAtLevel(level int, warmth int) *domain.PlayerProgress {
	p := e.ledger.NewProgress("p1", e.now)
	p.TotalXP = config.DefaultEconomy().Progression.LevelThresholds[level-1]
	e.ledger.Refresh(p)
	p.Warmth = warmth
	return p
}

// arrivedSpawn creates a spawn and takes playerID through reserve and arrive
func (e *testEnv) arrivedSpawn(t *testing.T, playerID string, kind domain.SpawnKind) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	req := domain.NewSpawn{Kind: kind, Location: here}
	if kind == domain.SpawnKindCreature {
		req.Rarity = domain.RarityCommon
	}
	sp, err := e.svc.CreateSpawn(ctx, req)
	require.NoError(t, err)
	_, err = e.svc.ReserveSpawn(ctx, playerID, sp.ID)
	require.NoError(t, err)
	_, err = e.svc.ArriveAtSpawn(ctx, playerID, sp.ID, here)
	require.NoError(t, err)
	return sp.ID
}

// perfect is the center of every issued target with FixedRandom(0.5)
const perfect = 0.5

func TestAttemptCatch_Success(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)

	res, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSuccess, res.Outcome)
	assert.Equal(t, domain.QualityPerfect, res.Quality)
	assert.InDelta(t, 0.95, res.SuccessProbability, 1e-9)
	assert.Equal(t, int64(150), res.XPAwarded)
	assert.Equal(t, int64(10), res.PointsAwarded)
	assert.Equal(t, 3, res.WarmthGained)
	assert.Equal(t, domain.SpawnStateCollected, res.SpawnState)
	require.NotNil(t, res.Progress)
	assert.Equal(t, 1, res.Progress.DailyCatchCount)

	sp, err := env.store.GetSpawn(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sp.RewardRef)
	assert.Equal(t, res.CatchID, *sp.RewardRef)

	records, err := env.svc.ListCatches(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, res.CatchID, records[0].ID)

	assert.Len(t, env.bus.OfType(event.CatchResolved), 1)
}

func TestAttemptCatch_FailReturnsSpawnToPool(t *testing.T) {
	env := newTestEnv(t, 0.999)
	ctx := context.Background()
	id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)

	res, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFail, res.Outcome)
	assert.Equal(t, domain.SpawnStateAvailable, res.SpawnState)
	assert.Zero(t, res.XPAwarded)

	p, err := env.svc.GetProgress(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.DailyCatchCount, "failed attempts count toward the cap")
	assert.Zero(t, p.TotalXP)

	res2, err := env.svc.ReserveSpawn(ctx, "p1", id)
	require.NoError(t, err, "the player who failed may reserve again")
	assert.Equal(t, "p1", res2.HolderID)

	require.NoError(t, env.svc.AbandonSpawn(ctx, "p1", id))
	_, err = env.svc.ReserveSpawn(ctx, "p2", id)
	assert.NoError(t, err)
}

func TestAttemptCatch_NearbyListingFreshAfterCommit(t *testing.T) {
	env := newCachedTestEnv(t, 0.999, 64)
	ctx := context.Background()
	id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)

	list, err := env.svc.ListNearbySpawns(ctx, "p2", here, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "held spawn is hidden from other players")

	_, err = env.svc.AttemptCatch(ctx, "p1", id, perfect)
	require.NoError(t, err)

	list, err = env.svc.ListNearbySpawns(ctx, "p2", here, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, domain.SpawnStateAvailable, list[0].State)
}

func TestAttemptCatch_SecondAttemptKeepsHold(t *testing.T) {
	env := newTestEnv(t, 0.999)
	ctx := context.Background()
	p := env.progressAtLevel(4, 0)
	p.SecondAttemptCharges = 1
	env.seedProgress(t, p)
	id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)

	res, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
	require.NoError(t, err)
	assert.True(t, res.SecondAttemptUsed)
	assert.Equal(t, domain.SpawnStateArrived, res.SpawnState)
	assert.Zero(t, res.Progress.SecondAttemptCharges)

	res, err = env.svc.AttemptCatch(ctx, "p1", id, perfect)
	require.NoError(t, err)
	assert.False(t, res.SecondAttemptUsed)
	assert.Equal(t, domain.SpawnStateAvailable, res.SpawnState)
}

func TestAttemptCatch_EggRollsContent(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	id := env.arrivedSpawn(t, "p1", domain.SpawnKindEgg)

	res, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
	require.NoError(t, err)
	assert.Equal(t, domain.RarityCommon, res.Rarity)
	assert.Equal(t, domain.PityCounters{SinceRare: 1, SinceEpic: 1, SinceLegendary: 1}, res.Progress.Pity)
}

func TestAttemptCatch_Errors(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	t.Run("invalid timing", func(t *testing.T) {
		_, err := env.svc.AttemptCatch(ctx, "p1", uuid.New(), 1.5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing player", func(t *testing.T) {
		_, err := env.svc.AttemptCatch(ctx, " ", uuid.New(), 0.5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("not holder", func(t *testing.T) {
		id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)
		_, err := env.svc.AttemptCatch(ctx, "p2", id, perfect)
		assert.ErrorIs(t, err, domain.ErrNotHolder)
	})

	t.Run("not arrived", func(t *testing.T) {
		sp, err := env.svc.CreateSpawn(ctx, domain.NewSpawn{Kind: domain.SpawnKindCreature, Rarity: domain.RarityRare, Location: here})
		require.NoError(t, err)
		_, err = env.svc.ReserveSpawn(ctx, "p1", sp.ID)
		require.NoError(t, err)

		_, err = env.svc.AttemptCatch(ctx, "p1", sp.ID, perfect)
		assert.ErrorIs(t, err, domain.ErrNotArrived)
	})

	t.Run("reservation expired", func(t *testing.T) {
		id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)
		env.now = env.now.Add(9 * time.Minute)
		defer func() { env.now = t0 }()

		_, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
		assert.ErrorIs(t, err, domain.ErrReservationExpired)
	})
}

func TestAttemptCatch_TwentySixthCatchHitsCap(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)
		_, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
		require.NoError(t, err, "catch %d", i+1)
	}

	id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)
	_, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
	assert.ErrorIs(t, err, domain.ErrDailyCapExceeded)

	sp, _ := env.store.GetSpawn(ctx, id)
	assert.Equal(t, domain.SpawnStateArrived, sp.State, "rejected attempt leaves the spawn untouched")

	// the next day the cap resets
	env.now = env.now.Add(24 * time.Hour)
	sp2 := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)
	_, err = env.svc.AttemptCatch(ctx, "p1", sp2, perfect)
	assert.NoError(t, err)
}

func TestAttemptCatch_ConcurrentNeverExceedsCap(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	const spawns = 30
	ids := make([]uuid.UUID, spawns)
	for i := range ids {
		ids[i] = env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		capped    int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrDailyCapExceeded):
				capped++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 25, successes)
	assert.Equal(t, 5, capped)

	p, err := env.store.GetProgress(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 25, p.DailyCatchCount)
	assert.LessOrEqual(t, p.DailyCatchCount, p.DailyCatchCap)
}

func TestAttemptCatch_LevelUpPublishesEvent(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	p := env.ledger.NewProgress("p1", env.now)
	p.TotalXP = 1400
	env.ledger.Refresh(p)
	env.seedProgress(t, p)

	id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)
	res, err := env.svc.AttemptCatch(ctx, "p1", id, perfect)
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)

	levelUps := env.bus.OfType(event.LevelUp)
	require.Len(t, levelUps, 1)
	payload := levelUps[0].Payload.(event.LevelUpPayloadV1)
	assert.Equal(t, 2, payload.NewLevel)
}

func TestSpendWarmth_TrackerPing(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	env.seedProgress(t, env.progressAtLevel(3, 6))

	_, err := env.svc.SpendWarmth(ctx, "p1", domain.FeatureTrackerPing, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.svc.SpendWarmth(ctx, "p1", domain.FeatureTrackerPing, &here)
	assert.ErrorIs(t, err, domain.ErrNoSpawnsNearby)
	p, _ := env.svc.GetProgress(ctx, "p1")
	assert.Equal(t, 6, p.Warmth, "nothing spent without a target")

	east := geo.Destination(geo.Point{Lat: here.Lat, Lng: here.Lng}, 90, 800)
	sp, err := env.svc.CreateSpawn(ctx, domain.NewSpawn{
		Kind:     domain.SpawnKindCreature,
		Rarity:   domain.RarityEpic,
		Location: domain.Location{Lat: east.Lat, Lng: east.Lng},
	})
	require.NoError(t, err)

	res, err := env.svc.SpendWarmth(ctx, "p1", domain.FeatureTrackerPing, &here)
	require.NoError(t, err)
	require.NotNil(t, res.Ping)
	assert.Equal(t, sp.ID.String(), res.Ping.SpawnID)
	assert.InDelta(t, 800, res.Ping.DistanceMeters, 1)
	assert.InDelta(t, 90, res.Ping.BearingDegrees, 0.5)
	assert.Equal(t, 4, res.WarmthRemaining)
}

func TestSpendWarmth_HeatModeRaisesProbability(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	env.seedProgress(t, env.progressAtLevel(5, 6))

	_, err := env.svc.SpendWarmth(ctx, "p1", domain.FeatureHeatMode, nil)
	require.NoError(t, err)

	sp, err := env.svc.CreateSpawn(ctx, domain.NewSpawn{Kind: domain.SpawnKindCreature, Rarity: domain.RarityLegendary, Location: here})
	require.NoError(t, err)
	_, err = env.svc.ReserveSpawn(ctx, "p1", sp.ID)
	require.NoError(t, err)
	_, err = env.svc.ArriveAtSpawn(ctx, "p1", sp.ID, here)
	require.NoError(t, err)

	// a far miss: 0.30 base + 0.10 heat
	res, err := env.svc.AttemptCatch(ctx, "p1", sp.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityMiss, res.Quality)
	assert.InDelta(t, 0.40, res.SuccessProbability, 1e-9)
}

func TestSweepExpired_PublishesEvents(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	_, err := env.svc.CreateSpawn(ctx, domain.NewSpawn{Kind: domain.SpawnKindEgg, Location: here, TTL: time.Minute})
	require.NoError(t, err)

	env.now = env.now.Add(2 * time.Minute)
	n, err := env.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expired := env.bus.OfType(event.SpawnExpired)
	require.Len(t, expired, 1)
	payload := expired[0].Payload.(event.SpawnExpiredPayloadV1)
	assert.Equal(t, string(domain.SpawnStateAvailable), payload.PreviousState)
}

func TestAbandonSpawn(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	id := env.arrivedSpawn(t, "p1", domain.SpawnKindCreature)

	assert.ErrorIs(t, env.svc.AbandonSpawn(ctx, "p2", id), domain.ErrNotHolder)
	require.NoError(t, env.svc.AbandonSpawn(ctx, "p1", id))
	assert.Len(t, env.bus.OfType(event.SpawnAbandoned), 1)

	list, err := env.svc.ListNearbySpawns(ctx, "p2", here, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SpawnStateAvailable, list[0].State)
}
