package workers

import (
	"context"
	"log/slog"
	"time"

	"custodia/contexts/custody-core/trust-service/application"
	"custodia/contexts/custody-core/trust-service/ports"
)

// Publisher delivers trust lifecycle events to the bus.
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
		logger.Error("trust outbox list failed",
			"event", "trust_outbox_list_failed",
			"module", "custody-core/trust-service",
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
			logger.Error("trust outbox publish failed",
				"event", "trust_outbox_publish_failed",
				"module", "custody-core/trust-service",
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
