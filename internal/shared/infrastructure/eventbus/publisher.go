// Package eventbus publishes ticket triage events to a message broker.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// TicketEvent is the envelope every triage event is published in.
type TicketEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	TicketID      uuid.UUID       `json:"ticket_id"`
	RoutingKey    string          `json:"routing_key"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewTicketEvent wraps payload, encoded as JSON, in a new envelope.
func NewTicketEvent(ticketID uuid.UUID, routingKey string, payload any) (*TicketEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", routingKey, err)
	}
	return &TicketEvent{
		EventID:    uuid.New(),
		TicketID:   ticketID,
		RoutingKey: routingKey,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

// WithCorrelationID sets the correlation id and returns e.
func (e *TicketEvent) WithCorrelationID(id string) *TicketEvent {
	e.CorrelationID = id
	return e
}

// PublishEvent encodes event and publishes it under its routing key.
func PublishEvent(ctx context.Context, publisher Publisher, event *TicketEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.EventID, err)
	}
	if err := publisher.Publish(ctx, event.RoutingKey, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.RoutingKey, err)
	}
	return nil
}

// NoopPublisher is a no-op publisher for testing/development.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the message but doesn't actually publish.
func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error {
	return nil
}
