package repository

import (
	"context"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
)

// Progress defines the data access interface for player progression
type Progress interface {
	// GetProgress returns nil, nil when the player has no record yet
	GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error)

	// ResetDailyCounts zeroes daily_catch_count for every player whose
	// cap_reset_at is before boundary. Streaks are left to the lazy rollover.
	ResetDailyCounts(ctx context.Context, boundary time.Time) (int64, error)
}

// Catch defines read access to the catch audit log
type Catch interface {
	ListCatchRecords(ctx context.Context, playerID string, limit int) ([]domain.CatchRecord, error)
}

// Hunt is the full storage surface used by the hunt engine
type Hunt interface {
	Spawn
	Progress
	Catch

	BeginHuntTx(ctx context.Context) (HuntTx, error)
	Ping(ctx context.Context) error
}
