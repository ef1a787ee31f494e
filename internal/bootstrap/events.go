package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
)

// InitializeEventSystem builds the in-process bus and the resilient
// publisher services publish through. Consumers subscribe on the returned
// bus; producers get the publisher so failed deliveries are retried and
// finally dead-lettered to EVENT_DEADLETTER_PATH.
//
// Entries left in the dead-letter file by earlier runs are counted and
// reported so operators notice undelivered hunt events after a restart.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	maxRetries := cfg.EventMaxRetries
	if maxRetries <= 0 {
		maxRetries = EventDefaultMaxRetries
	}
	retryDelay := cfg.EventRetryDelay
	if retryDelay <= 0 {
		retryDelay = EventDefaultRetryDelay
	}
	deadLetterPath := cfg.EventDeadLetterPath
	if deadLetterPath == "" {
		deadLetterPath = EventDefaultDeadLetterPath
	}

	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	backlog, err := event.ReadDeadLetterBacklog(deadLetterPath)
	switch {
	case err != nil:
		slog.Warn(LogMsgDeadLetterBacklogUnreadable, "path", deadLetterPath, "error", err)
	case backlog.Total > 0 || backlog.Malformed > 0:
		slog.Warn(LogMsgDeadLetterBacklog,
			"path", deadLetterPath,
			"entries", backlog.Total,
			"malformed", backlog.Malformed,
			"by_type", backlog.ByType)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, maxRetries, retryDelay, deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", maxRetries,
		"retry_delay", retryDelay,
		"deadletter_path", deadLetterPath)

	return bus, publisher, nil
}
