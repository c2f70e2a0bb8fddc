package events

import (
	"context"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/logger"

	"github.com/sony/gobreaker/v2"
)

// BreakerPublisher 熔断包装，下游连续失败后快速失败
type BreakerPublisher struct {
	inner   Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher 创建熔断投递器
func NewBreakerPublisher(inner Publisher, cfg config.BreakerConfig) *BreakerPublisher {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        "order_event_publisher",
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnw("event_publisher_breaker_state_changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &BreakerPublisher{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Publish 经熔断器投递
func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.inner.Publish(ctx, event)
	})
	return err
}

// State 当前熔断状态
func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Close 关闭下游投递器
func (p *BreakerPublisher) Close() error {
	return p.inner.Close()
}
