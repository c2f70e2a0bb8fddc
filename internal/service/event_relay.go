package service

import (
	"context"
	"time"

	"github.com/souq-next/internal/events"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/metrics"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"
)

// EventRelayOptions outbox 投递参数
type EventRelayOptions struct {
	BatchSize   int
	MaxAttempts int
}

// EventRelayService 将 outbox 中的订单事件投递到消息中间件
type EventRelayService struct {
	eventRepo repository.OrderEventRepository
	publisher events.Publisher
	opts      EventRelayOptions

	now func() time.Time
}

// NewEventRelayService 创建事件投递服务
func NewEventRelayService(eventRepo repository.OrderEventRepository, publisher events.Publisher, opts EventRelayOptions) *EventRelayService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &EventRelayService{
		eventRepo: eventRepo,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

// RelayOne 投递单个事件，已投递的事件直接跳过
func (s *EventRelayService) RelayOne(ctx context.Context, eventID string) error {
	row, err := s.eventRepo.GetByEventID(eventID)
	if err != nil {
		return err
	}
	if row == nil || row.PublishedAt != nil {
		logger.FromContext(ctx).Debugw("event_relay_skip", "event_id", eventID, "found", row != nil)
		return nil
	}
	return s.publish(ctx, row)
}

// RelayPending 批量补投未投递事件，返回成功条数
func (s *EventRelayService) RelayPending(ctx context.Context) (int, error) {
	rows, err := s.eventRepo.ListUnpublished(s.opts.BatchSize, s.opts.MaxAttempts)
	if err != nil {
		return 0, err
	}
	published := 0
	for i := range rows {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}
		if err := s.publish(ctx, &rows[i]); err != nil {
			continue
		}
		published++
	}
	return published, nil
}

func (s *EventRelayService) publish(ctx context.Context, row *models.OrderEvent) error {
	log := logger.FromContext(ctx, "event_id", row.EventID, "event_type", row.EventType, "order_id", row.OrderID)
	if err := s.publisher.Publish(ctx, events.FromModel(row)); err != nil {
		metrics.RecordEventPublish(row.EventType, false)
		if markErr := s.eventRepo.MarkFailed(row.ID, err.Error()); markErr != nil {
			log.Errorw("event_relay_mark_failed_error", "error", markErr)
		}
		log.Warnw("event_relay_publish_failed", "attempts", row.Attempts+1, "error", err)
		return err
	}
	metrics.RecordEventPublish(row.EventType, true)
	if _, err := s.eventRepo.MarkPublished(row.ID, s.now()); err != nil {
		log.Errorw("event_relay_mark_published_failed", "error", err)
		return err
	}
	return nil
}
