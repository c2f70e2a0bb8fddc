package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []events.Event
	fail      error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestEventRelayPublishesPendingOnce(t *testing.T) {
	f := placeSingleOrder(t)
	_, err := f.env.orders.UpdateStatus(context.Background(), f.order.ID, f.vendorPrincipal(), UpdateStatusInput{Status: constants.OrderStatusConfirmed})
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	relay := NewEventRelayService(f.env.eventRepo, publisher, EventRelayOptions{BatchSize: 10, MaxAttempts: 3})

	count, err := relay.RelayPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, publisher.published, 2)
	assert.Equal(t, constants.EventOrderPlaced, publisher.published[0].Type)
	assert.Equal(t, constants.EventOrderStatusChanged, publisher.published[1].Type)
	assert.Equal(t, f.order.ID, publisher.published[0].OrderID)
	assert.Contains(t, string(publisher.published[0].Payload), f.order.OrderNumber)

	count, err = relay.RelayPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, relay.RelayOne(context.Background(), publisher.published[0].ID))
	assert.Len(t, publisher.published, 2)
}

func TestEventRelayRecordsFailuresAndStopsAtMaxAttempts(t *testing.T) {
	f := placeSingleOrder(t)
	publisher := &recordingPublisher{fail: errors.New("broker down")}
	relay := NewEventRelayService(f.env.eventRepo, publisher, EventRelayOptions{MaxAttempts: 2})

	for i := 0; i < 3; i++ {
		count, err := relay.RelayPending(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	}

	rows, err := f.env.eventRepo.ListUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Attempts)
	assert.Equal(t, "broker down", rows[0].LastError)

	publisher.fail = nil
	require.NoError(t, relay.RelayOne(context.Background(), rows[0].EventID))
	rows, err = f.env.eventRepo.ListUnpublished(10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEventRelayOneUnknownEvent(t *testing.T) {
	env := setupServiceTest(t)
	relay := NewEventRelayService(env.eventRepo, nil, EventRelayOptions{})
	assert.NoError(t, relay.RelayOne(context.Background(), "missing"))
}
