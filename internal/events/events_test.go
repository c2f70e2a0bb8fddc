package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct {
	calls int
	err   error
}

func (p *failingPublisher) Publish(context.Context, Event) error {
	p.calls++
	return p.err
}

func (p *failingPublisher) Close() error { return nil }

type recordingWriter struct {
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestNewNoneDriverReturnsNoop(t *testing.T) {
	pub, err := New(config.EventsConfig{Driver: constants.EventDriverNone})
	require.NoError(t, err)
	_, ok := pub.(NoopPublisher)
	assert.True(t, ok)
	assert.NoError(t, pub.Publish(context.Background(), Event{ID: "x"}))
}

func TestNewUnknownDriverFails(t *testing.T) {
	_, err := New(config.EventsConfig{Driver: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestNewKafkaRequiresBrokers(t *testing.T) {
	_, err := New(config.EventsConfig{Driver: constants.EventDriverKafka})
	assert.Error(t, err)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingPublisher{err: errors.New("broker down")}
	pub := NewBreakerPublisher(inner, config.BreakerConfig{ConsecutiveFailures: 2, TimeoutSeconds: 60})

	for i := 0; i < 2; i++ {
		assert.Error(t, pub.Publish(context.Background(), Event{ID: "evt"}))
	}
	assert.Equal(t, gobreaker.StateOpen, pub.State())

	err := pub.Publish(context.Background(), Event{ID: "evt"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls, "open breaker must not reach the broker")
}

func TestKafkaPublisherBuildsKeyedMessage(t *testing.T) {
	writer := &recordingWriter{}
	pub := &KafkaPublisher{writer: writer}
	occurred := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	event := FromModel(&models.OrderEvent{
		EventID:   "evt-9",
		EventType: constants.EventOrderCancelled,
		OrderID:   42,
		VendorID:  3,
		Payload:   `{"order_id":42}`,
		CreatedAt: occurred,
	})
	require.NoError(t, pub.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, `{"order_id":42}`, string(msg.Value))
	assert.Equal(t, occurred, msg.Time)
	assert.Equal(t, "event_id", msg.Headers[0].Key)
	assert.Equal(t, "evt-9", string(msg.Headers[0].Value))
	assert.Equal(t, constants.EventOrderCancelled, string(msg.Headers[1].Value))
}

func TestAMQPPublishingIsPersistent(t *testing.T) {
	msg := buildAMQPPublishing(Event{ID: "evt-1", Type: constants.EventOrderPlaced, Payload: []byte("{}")})
	assert.Equal(t, "evt-1", msg.MessageId)
	assert.Equal(t, constants.EventOrderPlaced, msg.Type)
	assert.Equal(t, uint8(2), msg.DeliveryMode)
}
