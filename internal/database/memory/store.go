// Package memory is a process-local implementation of the hunt repositories
// for development and tests. Transactions serialize on a single store lock.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

// Store keeps spawns, progress and catch records in maps
type Store struct {
	mu       sync.RWMutex
	spawns   map[uuid.UUID]*domain.Spawn
	progress map[string]*domain.PlayerProgress
	catches  []domain.CatchRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		spawns:   make(map[uuid.UUID]*domain.Spawn),
		progress: make(map[string]*domain.PlayerProgress),
	}
}

var _ repository.Hunt = (*Store)(nil)

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// CreateSpawn stores a new spawn
func (s *Store) CreateSpawn(ctx context.Context, spawn *domain.Spawn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.spawns[spawn.ID]; exists {
		return fmt.Errorf("%w: spawn %s already exists", domain.ErrInvalidInput, spawn.ID)
	}
	s.spawns[spawn.ID] = spawn.Clone()
	return nil
}

// GetSpawn returns a copy of the spawn
func (s *Store) GetSpawn(ctx context.Context, id uuid.UUID) (*domain.Spawn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSpawn(s.spawns, nil, id)
}

// UpdateSpawnIfMatches swaps the spawn in if state and version still match
func (s *Store) UpdateSpawnIfMatches(ctx context.Context, spawn *domain.Spawn, expectedState domain.SpawnState, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateSpawnIfMatches(s.spawns, s.spawns, spawn, expectedState, expectedVersion), nil
}

// ListSpawnsInBounds returns active spawns inside b
func (s *Store) ListSpawnsInBounds(ctx context.Context, b geo.Bounds, now time.Time) ([]*domain.Spawn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Spawn
	for _, sp := range s.spawns {
		if sp.State.IsTerminal() || sp.IsPastExpiry(now) {
			continue
		}
		if !b.Contains(geo.Point{Lat: sp.Location.Lat, Lng: sp.Location.Lng}) {
			continue
		}
		out = append(out, sp.Clone())
	}
	return out, nil
}

// ListSweepCandidates returns spawns the sweep should expire, oldest deadline first
func (s *Store) ListSweepCandidates(ctx context.Context, now time.Time, limit int) ([]*domain.Spawn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Spawn
	for _, sp := range s.spawns {
		if sp.State.IsTerminal() {
			continue
		}
		if sp.IsPastExpiry(now) || sp.IsReservationLapsed(now) {
			out = append(out, sp.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetProgress returns a copy of the player's progress or nil
func (s *Store) GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress[playerID].Clone(), nil
}

// ResetDailyCounts zeroes counters last reset before boundary
func (s *Store) ResetDailyCounts(ctx context.Context, boundary time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, p := range s.progress {
		if p.CapResetAt.Before(boundary) && p.DailyCatchCount > 0 {
			p.DailyCatchCount = 0
			n++
		}
	}
	return n, nil
}

// ListCatchRecords returns the player's newest records first
func (s *Store) ListCatchRecords(ctx context.Context, playerID string, limit int) ([]domain.CatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CatchRecord, 0)
	for i := len(s.catches) - 1; i >= 0; i-- {
		if s.catches[i].PlayerID != playerID {
			continue
		}
		out = append(out, s.catches[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// BeginHuntTx takes the store lock until Commit or Rollback.
// Writes are staged and applied together on Commit.
func (s *Store) BeginHuntTx(ctx context.Context) (repository.HuntTx, error) {
	s.mu.Lock()
	return &tx{
		s:        s,
		spawns:   make(map[uuid.UUID]*domain.Spawn),
		progress: make(map[string]*domain.PlayerProgress),
	}, nil
}

type tx struct {
	s        *Store
	spawns   map[uuid.UUID]*domain.Spawn
	progress map[string]*domain.PlayerProgress
	catches  []domain.CatchRecord
	done     bool
}

func (t *tx) GetSpawn(ctx context.Context, id uuid.UUID) (*domain.Spawn, error) {
	if t.done {
		return nil, errTxClosed
	}
	return getSpawn(t.s.spawns, t.spawns, id)
}

func (t *tx) UpdateSpawnIfMatches(ctx context.Context, spawn *domain.Spawn, expectedState domain.SpawnState, expectedVersion int64) (int64, error) {
	if t.done {
		return 0, errTxClosed
	}
	current := t.spawns
	if _, staged := t.spawns[spawn.ID]; !staged {
		current = t.s.spawns
	}
	return updateSpawnIfMatches(current, t.spawns, spawn, expectedState, expectedVersion), nil
}

func (t *tx) GetProgressForUpdate(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	if t.done {
		return nil, errTxClosed
	}
	if p, ok := t.progress[playerID]; ok {
		return p.Clone(), nil
	}
	return t.s.progress[playerID].Clone(), nil
}

func (t *tx) SaveProgress(ctx context.Context, p *domain.PlayerProgress) error {
	if t.done {
		return errTxClosed
	}
	t.progress[p.PlayerID] = p.Clone()
	return nil
}

func (t *tx) InsertCatchRecord(ctx context.Context, record *domain.CatchRecord) error {
	if t.done {
		return errTxClosed
	}
	t.catches = append(t.catches, *record)
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxClosed
	}
	for id, sp := range t.spawns {
		t.s.spawns[id] = sp
	}
	for id, p := range t.progress {
		t.s.progress[id] = p
	}
	t.s.catches = append(t.s.catches, t.catches...)
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return errTxClosed
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func getSpawn(base, staged map[uuid.UUID]*domain.Spawn, id uuid.UUID) (*domain.Spawn, error) {
	if sp, ok := staged[id]; ok {
		return sp.Clone(), nil
	}
	sp, ok := base[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSpawnNotFound, id)
	}
	return sp.Clone(), nil
}

func updateSpawnIfMatches(current, dst map[uuid.UUID]*domain.Spawn, spawn *domain.Spawn, expectedState domain.SpawnState, expectedVersion int64) int64 {
	stored, ok := current[spawn.ID]
	if !ok || stored.State != expectedState || stored.Version != expectedVersion {
		return 0
	}
	spawn.Version = expectedVersion + 1
	dst[spawn.ID] = spawn.Clone()
	return 1
}
