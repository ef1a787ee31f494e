package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/eventlog"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
)

// RegisterEventHandlers subscribes the in-process consumers of hunt events.
// Handlers go on the raw bus so retries from the resilient publisher reach
// them exactly like first attempts.
func RegisterEventHandlers(bus event.Bus, eventLogSvc eventlog.Service) error {
	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if err := eventLogSvc.Subscribe(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLog, err)
	}
	slog.Info(LogMsgEventLogSubscribed)
	return nil
}
