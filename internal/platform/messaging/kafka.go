package messaging

import (
	"context"
	"log/slog"
	"sync"
)

// Message is the wire unit carried on the bus. The payload is the serialized
// event envelope written by the module outboxes.
type Message struct {
	EventType    string
	PartitionKey string
	Payload      []byte
}

// Kafka is the event bus adapter used by the worker outbox relays.
// Current implementation is in-process publish/subscribe while runtime wiring
// is finalized for external brokers.
type Kafka struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Message
	logger      *slog.Logger
}

func NewKafka(_ []string, logger *slog.Logger) (*Kafka, error) {
	return &Kafka{
		subscribers: make(map[string][]chan Message),
		logger:      logger,
	}, nil
}

// Publish fans the message out to every subscriber of its event type. The
// signature matches the module relay Publisher ports.
func (k *Kafka) Publish(ctx context.Context, eventType string, partitionKey string, payload []byte) error {
	message := Message{
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      payload,
	}

	k.mu.RLock()
	subs := append([]chan Message(nil), k.subscribers[eventType]...)
	k.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- message:
		default:
			if k.logger != nil {
				k.logger.Warn("dropping event for slow subscriber",
					"event", "kafka_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", eventType,
					"partition_key", partitionKey,
				)
			}
		}
	}

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", eventType,
			"partition_key", partitionKey,
		)
	}
	return nil
}

func (k *Kafka) Subscribe(
	ctx context.Context,
	eventType string,
	consumerGroup string,
	handler func(context.Context, Message) error,
) error {
	ch := make(chan Message, 128)

	k.mu.Lock()
	k.subscribers[eventType] = append(k.subscribers[eventType], ch)
	k.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				k.removeSubscriber(eventType, ch)
				return
			case message := <-ch:
				if err := handler(ctx, message); err != nil && k.logger != nil {
					k.logger.Error("consumer handler failed",
						"event", "kafka_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", eventType,
						"consumer_group", consumerGroup,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (k *Kafka) removeSubscriber(eventType string, target chan Message) {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := k.subscribers[eventType]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan Message, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	k.subscribers[eventType] = filtered
}
