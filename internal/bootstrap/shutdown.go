package bootstrap

import (
	"context"
	"log/slog"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/scheduler"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/server"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	DailyResetWorker   *worker.DailyResetWorker
	ResilientPublisher *event.ResilientPublisher
	Storage            *Storage
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests, drain in-flight ones)
// 2. Scheduler and worker pool (no new sweeps, finish the running one)
// 3. Daily reset worker
// 4. Event publisher (flush pending retries)
// 5. Storage
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}

	if c.DailyResetWorker != nil {
		if err := c.DailyResetWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgDailyResetShutdownFailed, "error", err)
		}
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Storage != nil {
		c.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}
