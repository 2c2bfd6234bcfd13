package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultKafkaTopic is the topic triage events are written to.
const DefaultKafkaTopic = "triage.ticket.events"

// routingKeyHeader carries the routing key on every Kafka message.
const routingKeyHeader = "routing_key"

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single Kafka topic. The routing key is
// the message key, so events of one kind share a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for topic on brokers. Connections
// are opened lazily on the first write.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish writes payload keyed by routingKey.
func (p *KafkaPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(routingKey),
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: routingKeyHeader, Value: []byte(routingKey)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish message",
			"topic", p.topic,
			"routing_key", routingKey,
			"error", err,
		)
		return err
	}

	p.logger.Debug("message published",
		"topic", p.topic,
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
