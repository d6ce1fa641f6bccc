package cmd

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/monthly-budget/internal/core/events"
)

// registerEventHandlers wires the process-level subscribers of store events.
func registerEventHandlers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypeStateLoaded, func(ctx context.Context, event events.Event) error {
		data, _ := event.Payload().(map[string]interface{})
		switch data["source"] {
		case "rollover":
			lg.Info("new month started, expense ledger cleared", "month", data["month"])
		case "recovered":
			lg.Warn("stored state was unreadable and has been replaced with defaults", "month", data["month"])
		}
		return nil
	})

	bus.Subscribe(events.EventTypeStateChanged, func(ctx context.Context, event events.Event) error {
		lg.Debug("state change",
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	})
}
