package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/RMF112018/project-controls/pkg/eventbus"
)

// snapshot converts an entity into the generic before/after map an audit event
// carries.
func snapshot(entity any) map[string]any {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}

	return result
}

// publishAudit sends an audit event after a successful mutation. Audit delivery
// is best-effort: a sink outage must not roll back a mutation that already
// passed its guard and landed, so failures are logged and swallowed here.
func publishAudit(ctx context.Context, bus eventbus.EventPublisher, logger *slog.Logger, key string, event eventbus.Event) {
	if bus == nil {
		return
	}

	if err := bus.Publish(ctx, key, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish audit event",
			"event_type", event.GetType(), "key", key, "error", err)
	}
}
