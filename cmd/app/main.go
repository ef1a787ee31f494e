package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/bootstrap"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/eventlog"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/scheduler"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/server"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/worker"
)

const (
	shutdownTimeout = 30 * time.Second
	queueFactor     = 4
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	for _, w := range warnings {
		slog.Warn("Configuration warning", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	econ, err := bootstrap.LoadEconomy(cfg)
	if err != nil {
		return err
	}

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		return err
	}
	eventLogSvc := eventlog.NewService(storage.EventLog)
	if err := bootstrap.RegisterEventHandlers(bus, eventLogSvc); err != nil {
		storage.Close()
		return err
	}

	services, err := bootstrap.InitializeServices(cfg, econ, storage.Hunt, publisher)
	if err != nil {
		storage.Close()
		return err
	}

	loc, err := cfg.DailyResetLocation()
	if err != nil {
		storage.Close()
		return err
	}
	dailyReset := worker.NewDailyResetWorker(services.Progression, publisher, loc)
	dailyReset.Start()

	pool := worker.NewPool(cfg.WorkerPoolSize, cfg.WorkerPoolSize*queueFactor)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.SweepInterval, worker.NewSweepJob(services.Hunt))
	sched.Schedule(cfg.EventLogCleanupInterval, eventlog.NewCleanupJob(eventLogSvc, cfg.EventLogRetention))

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
	}, storage.Hunt, services.Hunt, dailyReset, eventLogSvc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
			Server:             srv,
			Scheduler:          sched,
			WorkerPool:         pool,
			DailyResetWorker:   dailyReset,
			ResilientPublisher: publisher,
			Storage:            storage,
		})
		return nil
	})

	return g.Wait()
}
