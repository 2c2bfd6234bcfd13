package eventbus

import "context"

// EventConsumer handles events whose routing key matches one of its patterns.
type EventConsumer interface {
	// EventTypes returns the routing key patterns this consumer handles.
	// Patterns use topic-exchange syntax: "*" matches one word and "#"
	// matches zero or more, e.g. "triage.ticket.*".
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *TicketEvent) error
}

// ConsumerFunc adapts a function to EventConsumer for a fixed pattern list.
type ConsumerFunc struct {
	Patterns []string
	Fn       func(ctx context.Context, event *TicketEvent) error
}

// EventTypes returns Patterns.
func (c ConsumerFunc) EventTypes() []string {
	return c.Patterns
}

// Handle calls Fn.
func (c ConsumerFunc) Handle(ctx context.Context, event *TicketEvent) error {
	return c.Fn(ctx, event)
}
