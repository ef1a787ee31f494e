package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
)

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newSpawn() *domain.Spawn {
	return &domain.Spawn{
		ID:          uuid.New(),
		Kind:        domain.SpawnKindCreature,
		Rarity:      domain.RarityRare,
		Location:    domain.Location{Lat: 10, Lng: 20},
		CreatedAt:   now,
		ExpiresAt:   now.Add(30 * time.Minute),
		State:       domain.SpawnStateAvailable,
		MaxAttempts: 5,
		Version:     1,
	}
}

func TestStore_CreateAndGetReturnCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sp := newSpawn()
	require.NoError(t, s.CreateSpawn(ctx, sp))

	assert.ErrorIs(t, s.CreateSpawn(ctx, sp), domain.ErrInvalidInput)

	got, err := s.GetSpawn(ctx, sp.ID)
	require.NoError(t, err)
	got.State = domain.SpawnStateExpired

	again, _ := s.GetSpawn(ctx, sp.ID)
	assert.Equal(t, domain.SpawnStateAvailable, again.State)

	_, err = s.GetSpawn(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSpawnNotFound)
}

func TestStore_UpdateSpawnIfMatches(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sp := newSpawn()
	require.NoError(t, s.CreateSpawn(ctx, sp))

	updated := sp.Clone()
	updated.State = domain.SpawnStateReserved

	n, err := s.UpdateSpawnIfMatches(ctx, updated, domain.SpawnStateAvailable, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(2), updated.Version)

	stale := sp.Clone()
	stale.State = domain.SpawnStateReserved
	n, err = s.UpdateSpawnIfMatches(ctx, stale, domain.SpawnStateAvailable, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_ListSpawnsInBounds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	inside := newSpawn()
	outside := newSpawn()
	outside.Location = domain.Location{Lat: 11, Lng: 20}
	expired := newSpawn()
	expired.State = domain.SpawnStateExpired
	for _, sp := range []*domain.Spawn{inside, outside, expired} {
		require.NoError(t, s.CreateSpawn(ctx, sp))
	}

	got, err := s.ListSpawnsInBounds(ctx, geo.BoundsAround(geo.Point{Lat: 10, Lng: 20}, 1000), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}

func TestStore_ListSweepCandidates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	stale := newSpawn()
	stale.ExpiresAt = now.Add(-time.Minute)
	lapsed := newSpawn()
	lapsed.State = domain.SpawnStateReserved
	lapsed.Reservation = &domain.Reservation{HolderID: "p1", Deadline: now.Add(-time.Second)}
	live := newSpawn()
	for _, sp := range []*domain.Spawn{stale, lapsed, live} {
		require.NoError(t, s.CreateSpawn(ctx, sp))
	}

	got, err := s.ListSweepCandidates(ctx, now, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListSweepCandidates(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID, "oldest expiry first")
}

func TestStore_TxCommitAppliesAllWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sp := newSpawn()
	require.NoError(t, s.CreateSpawn(ctx, sp))

	tx, err := s.BeginHuntTx(ctx)
	require.NoError(t, err)

	p, err := tx.GetProgressForUpdate(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, tx.SaveProgress(ctx, &domain.PlayerProgress{PlayerID: "p1", Level: 1}))
	updated := sp.Clone()
	updated.State = domain.SpawnStateCollected
	n, err := tx.UpdateSpawnIfMatches(ctx, updated, domain.SpawnStateAvailable, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, tx.InsertCatchRecord(ctx, &domain.CatchRecord{ID: uuid.New(), PlayerID: "p1"}))

	staged, err := tx.GetSpawn(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpawnStateCollected, staged.State, "tx reads its own writes")

	require.NoError(t, tx.Commit(ctx))
	assert.Error(t, tx.Commit(ctx))

	got, _ := s.GetSpawn(ctx, sp.ID)
	assert.Equal(t, domain.SpawnStateCollected, got.State)
	prog, _ := s.GetProgress(ctx, "p1")
	require.NotNil(t, prog)
	records, _ := s.ListCatchRecords(ctx, "p1", 10)
	assert.Len(t, records, 1)
}

func TestStore_TxRollbackDiscardsWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sp := newSpawn()
	require.NoError(t, s.CreateSpawn(ctx, sp))

	tx, err := s.BeginHuntTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveProgress(ctx, &domain.PlayerProgress{PlayerID: "p1"}))
	updated := sp.Clone()
	updated.State = domain.SpawnStateExpired
	_, err = tx.UpdateSpawnIfMatches(ctx, updated, domain.SpawnStateAvailable, 1)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	got, _ := s.GetSpawn(ctx, sp.ID)
	assert.Equal(t, domain.SpawnStateAvailable, got.State)
	prog, _ := s.GetProgress(ctx, "p1")
	assert.Nil(t, prog)

	_, err = tx.GetSpawn(ctx, sp.ID)
	assert.Error(t, err)
}

func TestStore_ListCatchRecordsNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	tx, err := s.BeginHuntTx(ctx)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, tx.InsertCatchRecord(ctx, &domain.CatchRecord{ID: ids[i], PlayerID: "p1", CreatedAt: now.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, tx.InsertCatchRecord(ctx, &domain.CatchRecord{ID: uuid.New(), PlayerID: "p2"}))
	require.NoError(t, tx.Commit(ctx))

	got, err := s.ListCatchRecords(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
}

func TestStore_ResetDailyCounts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	today := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	tx, err := s.BeginHuntTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveProgress(ctx, &domain.PlayerProgress{PlayerID: "old", DailyCatchCount: 9, CapResetAt: today.AddDate(0, 0, -1)}))
	require.NoError(t, tx.SaveProgress(ctx, &domain.PlayerProgress{PlayerID: "idle", CapResetAt: today.AddDate(0, 0, -3)}))
	require.NoError(t, tx.SaveProgress(ctx, &domain.PlayerProgress{PlayerID: "new", DailyCatchCount: 4, CapResetAt: today}))
	require.NoError(t, tx.Commit(ctx))

	n, err := s.ResetDailyCounts(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, _ := s.GetProgress(ctx, "old")
	assert.Zero(t, old.DailyCatchCount)
	fresh, _ := s.GetProgress(ctx, "new")
	assert.Equal(t, 4, fresh.DailyCatchCount)
}
