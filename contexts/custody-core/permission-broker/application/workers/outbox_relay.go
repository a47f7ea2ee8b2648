package workers

import (
	"context"
	"log/slog"
	"time"

	"custodia/contexts/custody-core/permission-broker/application"
	"custodia/contexts/custody-core/permission-broker/ports"
)

// Publisher delivers role and allowance change events to the bus.
type Publisher interface {
	Publish(ctx context.Context, eventType string, partitionKey string, payload []byte) error
}

type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher Publisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("broker outbox list failed",
			"event", "broker_outbox_list_failed",
			"module", "custody-core/permission-broker",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		if err := r.Publisher.Publish(ctx, row.EventType, row.PartitionKey, row.Payload); err != nil {
			logger.Error("broker outbox publish failed",
				"event", "broker_outbox_publish_failed",
				"module", "custody-core/permission-broker",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}
