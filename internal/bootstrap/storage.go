package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/database"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/database/memory"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/database/postgres"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// Storage is the selected repositories plus whatever must be released on exit
type Storage struct {
	Hunt     repository.Hunt
	EventLog repository.EventLog
	close    func()
}

// Close releases the underlying connections
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// InitializeStorage opens the repository chosen by STORAGE_DRIVER. For
// Postgres it also applies pending migrations unless AUTO_MIGRATE is off.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn(LogMsgStorageMemory)
		return &Storage{Hunt: memory.NewStore(), EventLog: memory.NewEventLog()}, nil
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxIdle,
		MaxConnLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenPool, err)
	}

	if cfg.AutoMigrate {
		if err := database.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedRunMigrations, err)
		}
		slog.Info(LogMsgMigrationsApplied)
	} else {
		slog.Info(LogMsgMigrationsSkipped)
	}

	slog.Info(LogMsgStoragePostgres, "db_host", cfg.DBHost, "db_name", cfg.DBName)
	return &Storage{
		Hunt:     postgres.NewHuntRepository(pool),
		EventLog: postgres.NewEventLogRepository(pool),
		close:    pool.Close,
	}, nil
}
