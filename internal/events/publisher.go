package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"
)

// Event 待投递的订单事件
type Event struct {
	ID         string
	Type       string
	OrderID    uint
	VendorID   uint
	Payload    []byte
	OccurredAt time.Time
}

// FromModel 从 outbox 记录构建事件
func FromModel(row *models.OrderEvent) Event {
	if row == nil {
		return Event{}
	}
	return Event{
		ID:         row.EventID,
		Type:       row.EventType,
		OrderID:    row.OrderID,
		VendorID:   row.VendorID,
		Payload:    []byte(row.Payload),
		OccurredAt: row.CreatedAt,
	}
}

// Publisher 事件投递接口
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher 未配置消息中间件时使用
type NoopPublisher struct{}

// Publish 直接视为成功
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close 无资源需要释放
func (NoopPublisher) Close() error { return nil }

// New 按配置创建投递器，并包裹熔断器
func New(cfg config.EventsConfig) (Publisher, error) {
	var (
		inner Publisher
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", constants.EventDriverNone:
		return NoopPublisher{}, nil
	case constants.EventDriverKafka:
		inner, err = NewKafkaPublisher(cfg.Kafka)
	case constants.EventDriverRabbitMQ:
		inner, err = NewRabbitMQPublisher(cfg.RabbitMQ)
	default:
		return nil, fmt.Errorf("unsupported events driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewBreakerPublisher(inner, cfg.Breaker), nil
}
