package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// HuntTx extends Tx with the operations a catch attempt needs atomically.
// Spawn finalization, the progress update and the audit record either all
// persist or none do.
type HuntTx interface {
	Tx // Commit, Rollback

	SpawnStore

	// GetProgressForUpdate locks the player's progress row for the rest of
	// the transaction. Returns nil, nil when the player has no record yet.
	GetProgressForUpdate(ctx context.Context, playerID string) (*domain.PlayerProgress, error)
	SaveProgress(ctx context.Context, progress *domain.PlayerProgress) error

	InsertCatchRecord(ctx context.Context, record *domain.CatchRecord) error
}

// SafeRollback is meant for defer right after Begin. Rolling back a
// transaction that already committed is expected and not logged.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback hunt transaction", "error", err)
}
