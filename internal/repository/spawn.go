package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
)

// SpawnStore is the spawn access shared by the repository and its transactions
type SpawnStore interface {
	// GetSpawn returns domain.ErrSpawnNotFound when id is unknown
	GetSpawn(ctx context.Context, id uuid.UUID) (*domain.Spawn, error)

	// UpdateSpawnIfMatches persists spawn only if the stored row is still in
	// expectedState at expectedVersion. The stored version becomes
	// expectedVersion+1. Returns the number of rows affected (0 or 1).
	UpdateSpawnIfMatches(ctx context.Context, spawn *domain.Spawn, expectedState domain.SpawnState, expectedVersion int64) (int64, error)
}

// Spawn defines the data access interface for the spawn registry
type Spawn interface {
	SpawnStore

	CreateSpawn(ctx context.Context, spawn *domain.Spawn) error

	// ListSpawnsInBounds returns non-terminal spawns inside b that have not
	// passed their expiry at now.
	ListSpawnsInBounds(ctx context.Context, b geo.Bounds, now time.Time) ([]*domain.Spawn, error)

	// ListSweepCandidates returns non-terminal spawns past ExpiresAt, plus
	// held spawns whose reservation deadline has passed.
	ListSweepCandidates(ctx context.Context, now time.Time, limit int) ([]*domain.Spawn, error)
}
