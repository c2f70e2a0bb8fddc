package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/events"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/provider"
	"github.com/souq-next/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var workerTestSeq int64

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func setupWorkerTest(t *testing.T) (*Consumer, *capturePublisher) {
	t.Helper()
	logger.L = zap.NewNop()

	dsn := fmt.Sprintf("file:worker_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&workerTestSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "worker-test", ExpireHours: 1}}
	publisher := &capturePublisher{}
	container := provider.NewContainerWithDB(cfg, db, nil, publisher)
	return NewConsumer(container), publisher
}

func seedOutboxEvent(t *testing.T, consumer *Consumer, eventID string) {
	t.Helper()
	row := &models.OrderEvent{
		EventID:   eventID,
		EventType: constants.EventOrderStatusChanged,
		OrderID:   11,
		VendorID:  3,
		Payload:   `{"from":"PENDING","to":"CONFIRMED"}`,
	}
	if err := consumer.OrderEventRepo.Create(row); err != nil {
		t.Fatalf("create outbox event failed: %v", err)
	}
}

func TestHandleOrderEventDispatchInvalidPayload(t *testing.T) {
	consumer, publisher := setupWorkerTest(t)

	err := consumer.handleOrderEventDispatch(context.Background(), asynq.NewTask(queue.TaskOrderEventDispatch, []byte(`{"event_id":""}`)))
	if err == nil || !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("invalid payload should skip retry, got %v", err)
	}
	if publisher.count() != 0 {
		t.Fatalf("nothing should be published")
	}
}

func TestHandleOrderEventDispatchPublishesOnce(t *testing.T) {
	consumer, publisher := setupWorkerTest(t)
	seedOutboxEvent(t, consumer, "evt-dispatch-1")

	task, err := queue.NewOrderEventDispatchTask(queue.OrderEventDispatchPayload{
		EventID:   "evt-dispatch-1",
		EventType: constants.EventOrderStatusChanged,
		OrderID:   11,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := consumer.handleOrderEventDispatch(context.Background(), task); err != nil {
			t.Fatalf("dispatch %d failed: %v", i+1, err)
		}
	}
	if publisher.count() != 1 {
		t.Fatalf("event should be published exactly once, got %d", publisher.count())
	}

	row, err := consumer.OrderEventRepo.GetByEventID("evt-dispatch-1")
	if err != nil || row == nil {
		t.Fatalf("reload event failed: %v", err)
	}
	if row.PublishedAt == nil {
		t.Fatalf("event should be marked published")
	}
}

func TestHandleOrderEventDispatchNilConsumer(t *testing.T) {
	var consumer *Consumer
	if err := consumer.handleOrderEventDispatch(context.Background(), nil); err != nil {
		t.Fatalf("nil consumer should be ignored, got %v", err)
	}
}

func TestRunRelayLoopDrainsPendingEvents(t *testing.T) {
	consumer, publisher := setupWorkerTest(t)
	seedOutboxEvent(t, consumer, "evt-relay-1")
	seedOutboxEvent(t, consumer, "evt-relay-2")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunRelayLoop(ctx, consumer, time.Hour)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for publisher.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("relay loop did not stop after cancel")
	}
	if publisher.count() != 2 {
		t.Fatalf("relay loop should publish 2 events, got %d", publisher.count())
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}, 0); err == nil {
		t.Fatalf("disabled queue should fail")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil, 0); err == nil {
		t.Fatalf("nil consumer should fail")
	}
}
