package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/catch"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/concurrency"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/hunt"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/progression"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/rarity"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/spawn"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/utils"
)

// Services holds the business layer built on top of storage
type Services struct {
	Hunt        hunt.Service
	Progression progression.Service
}

// LoadEconomy reads and validates the game-economy file. A missing file
// falls back to the shipped defaults.
func LoadEconomy(cfg *config.Config) (config.Economy, error) {
	econ, err := config.LoadEconomy(cfg.EconomyConfigPath)
	if err != nil {
		return config.Economy{}, fmt.Errorf("%s: %w", ErrMsgFailedLoadEconomy, err)
	}
	slog.Info(LogMsgEconomyLoaded, "path", cfg.EconomyConfigPath, "version", econ.Version)
	return econ, nil
}

// InitializeServices wires the roller, registry, resolver and ledger into the
// hunt facade. The progression service and the hunt service share one lock
// manager so a catch and a warmth purchase never interleave for a player.
func InitializeServices(cfg *config.Config, econ config.Economy, repo repository.Hunt, bus event.Bus) (*Services, error) {
	loc, err := cfg.DailyResetLocation()
	if err != nil {
		return nil, err
	}

	roller := rarity.NewRoller(econ.Rarity, utils.RandomFloat)
	registry := spawn.NewRegistry(repo, econ.Spawn, utils.RandomFloat, cfg.NearbyCacheMax, cfg.NearbyCacheTTL)
	resolver := catch.NewResolver(econ.Catch, roller, utils.RandomFloat)
	ledger := progression.NewLedger(econ.Progression, loc)
	locks := concurrency.NewLockManager()

	progressionSvc := progression.NewService(repo, ledger, locks, bus)
	huntSvc := hunt.NewService(repo, registry, resolver, progressionSvc, locks, bus)

	return &Services{Hunt: huntSvc, Progression: progressionSvc}, nil
}
