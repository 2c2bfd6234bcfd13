package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// InProcessBus is a Publisher that delivers events synchronously to
// consumers in the same process. It needs no broker.
type InProcessBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
}

// NewInProcessBus creates a new in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer registers an event consumer.
func (b *InProcessBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes payload as a TicketEvent and dispatches it. Undecodable
// payloads and consumer failures are logged, never returned: a local
// consumer must not fail the triage that produced the event.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event := &TicketEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		b.logger.Error("failed to unmarshal event payload",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}

	start := time.Now()
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}

	b.logger.Debug("event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Close is a no-op.
func (b *InProcessBus) Close() error {
	return nil
}

// Registry returns the underlying consumer registry.
func (b *InProcessBus) Registry() *ConsumerRegistry {
	return b.registry
}
