package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Publisher kinds accepted by NewPublisher.
const (
	KindNone      = "none"
	KindInProcess = "inprocess"
	KindRabbitMQ  = "rabbitmq"
	KindRedis     = "redis"
	KindKafka     = "kafka"
)

// Settings selects and configures a publisher.
type Settings struct {
	Kind string

	RabbitMQURL      string
	RabbitMQExchange string

	RedisURL     string
	RedisChannel string

	KafkaBrokers []string
	KafkaTopic   string
}

// NewPublisher builds the publisher named by settings.Kind. An empty kind
// means KindNone.
func NewPublisher(ctx context.Context, settings Settings, logger *slog.Logger) (Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch settings.Kind {
	case "", KindNone:
		return NewNoopPublisher(logger), nil
	case KindInProcess:
		return NewInProcessBus(logger), nil
	case KindRabbitMQ:
		if settings.RabbitMQURL == "" {
			return nil, errors.New("rabbitmq publisher requires a URL")
		}
		p, err := NewRabbitMQPublisher(settings.RabbitMQURL, settings.RabbitMQExchange, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindRedis:
		if settings.RedisURL == "" {
			return nil, errors.New("redis publisher requires a URL")
		}
		p, err := NewRedisPublisher(ctx, settings.RedisURL, settings.RedisChannel, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindKafka:
		if len(settings.KafkaBrokers) == 0 {
			return nil, errors.New("kafka publisher requires at least one broker")
		}
		return NewKafkaPublisher(settings.KafkaBrokers, settings.KafkaTopic, logger), nil
	default:
		return nil, fmt.Errorf("unknown publisher kind %q", settings.Kind)
	}
}
