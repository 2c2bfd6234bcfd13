package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

type registration struct {
	patterns []string
	consumer EventConsumer
}

// ConsumerRegistry manages event consumers and dispatches events to them.
type ConsumerRegistry struct {
	mu            sync.RWMutex
	registrations []registration
	logger        *slog.Logger
}

// NewConsumerRegistry creates a new consumer registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register adds a consumer. Its patterns are read once, at registration.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	patterns := consumer.EventTypes()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.registrations = append(r.registrations, registration{patterns: patterns, consumer: consumer})
	r.logger.Debug("registered consumer", "patterns", patterns)
}

// GetConsumers returns the consumers with a pattern matching routingKey,
// in registration order.
func (r *ConsumerRegistry) GetConsumers(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []EventConsumer
	for _, reg := range r.registrations {
		for _, pattern := range reg.patterns {
			if MatchRoutingKey(pattern, routingKey) {
				matched = append(matched, reg.consumer)
				break
			}
		}
	}
	return matched
}

// Dispatch sends an event to every matching consumer. All consumers run
// even when one fails; the failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *TicketEvent) error {
	consumers := r.GetConsumers(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ConsumerCount returns the number of registered consumers.
func (r *ConsumerRegistry) ConsumerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// MatchRoutingKey reports whether key matches a topic-exchange pattern.
func MatchRoutingKey(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(key); i++ {
			if matchWords(pattern[1:], key[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(key) > 0 && matchWords(pattern[1:], key[1:])
	default:
		return len(key) > 0 && pattern[0] == key[0] && matchWords(pattern[1:], key[1:])
	}
}
