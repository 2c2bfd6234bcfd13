package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel prefixes the pub/sub channel of every event.
const DefaultRedisChannel = "triage:events"

// redisClient is the subset of *redis.Client the publisher uses.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisPublisher publishes events over Redis pub/sub. Delivery is
// transient: subscribers that are not connected miss the event.
type RedisPublisher struct {
	client  redisClient
	channel string
	logger  *slog.Logger
}

// NewRedisPublisher connects to the Redis server at url (redis:// form)
// and checks it with PING.
func NewRedisPublisher(ctx context.Context, url, channel string, logger *slog.Logger) (*RedisPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis publisher connected", "addr", opts.Addr)
	return newRedisPublisher(client, channel, logger), nil
}

func newRedisPublisher(client redisClient, channel string, logger *slog.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// Channel returns the pub/sub channel used for routingKey.
func (p *RedisPublisher) Channel(routingKey string) string {
	return p.channel + ":" + routingKey
}

// Publish sends payload on the channel for routingKey.
func (p *RedisPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	channel := p.Channel(routingKey)
	receivers, err := p.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		p.logger.Error("failed to publish message",
			"channel", channel,
			"error", err,
		)
		return err
	}

	p.logger.Debug("message published",
		"channel", channel,
		"receivers", receivers,
		"size", len(payload),
	)
	return nil
}

// Close closes the client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
