package eventbus

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newRabbitMQPublisher(ch, DefaultExchange, testLogger())

	require.NoError(t, p.Publish(context.Background(), "triage.ticket.analyzed", []byte(`{"a":1}`)))
	assert.Equal(t, "triage.ticket.events", ch.exchange)
	assert.Equal(t, "triage.ticket.analyzed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, []byte(`{"a":1}`), ch.msg.Body)
	assert.False(t, ch.msg.Timestamp.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p := newRabbitMQPublisher(&fakeChannel{err: boom}, DefaultExchange, testLogger())

	assert.ErrorIs(t, p.Publish(context.Background(), "k", nil), boom)
}

type fakeRedis struct {
	channel string
	message any
	err     error
	closed  bool
}

func (r *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	r.channel, r.message = channel, message
	return redis.NewIntResult(1, r.err)
}

func (r *fakeRedis) Close() error {
	r.closed = true
	return nil
}

func TestRedisPublisher_Publish(t *testing.T) {
	client := &fakeRedis{}
	p := newRedisPublisher(client, "", testLogger())

	assert.Equal(t, "triage:events:triage.ticket.rejected", p.Channel("triage.ticket.rejected"))
	require.NoError(t, p.Publish(context.Background(), "triage.ticket.rejected", []byte("x")))
	assert.Equal(t, "triage:events:triage.ticket.rejected", client.channel)
	assert.Equal(t, []byte("x"), client.message)

	require.NoError(t, p.Close())
	assert.True(t, client.closed)
}

func TestRedisPublisher_CustomChannelAndError(t *testing.T) {
	boom := errors.New("connection refused")
	p := newRedisPublisher(&fakeRedis{err: boom}, "support", testLogger())

	assert.Equal(t, "support:k", p.Channel("k"))
	assert.ErrorIs(t, p.Publish(context.Background(), "k", nil), boom)
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := newKafkaPublisher(writer, DefaultKafkaTopic, nil)

	require.NoError(t, p.Publish(context.Background(), "triage.ticket.analyzed", []byte(`{}`)))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, []byte("triage.ticket.analyzed"), msg.Key)
	assert.Equal(t, []byte(`{}`), msg.Value)
	assert.False(t, msg.Time.IsZero())
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "routing_key", msg.Headers[0].Key)
	assert.Equal(t, []byte("triage.ticket.analyzed"), msg.Headers[0].Value)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	boom := errors.New("leader not available")
	p := newKafkaPublisher(&fakeWriter{err: boom}, DefaultKafkaTopic, testLogger())

	assert.ErrorIs(t, p.Publish(context.Background(), "k", nil), boom)
}

func TestNewKafkaPublisher_Defaults(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "", nil)
	assert.Equal(t, DefaultKafkaTopic, p.topic)

	writer, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultKafkaTopic, writer.Topic)
	assert.NoError(t, p.Close())
}
