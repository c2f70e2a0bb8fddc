package worker

import (
	"context"
	"fmt"

	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/provider"
	"github.com/souq-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderEventDispatch, c.handleOrderEventDispatch)
}

func (c *Consumer) handleOrderEventDispatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_event_dispatch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderEventDispatchPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_order_event_dispatch_invalid_payload", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.Container == nil || c.EventRelayService == nil {
		logger.Warnw("worker_order_event_dispatch_skip_relay_nil", "event_id", payload.EventID)
		return nil
	}
	if err := c.EventRelayService.RelayOne(ctx, payload.EventID); err != nil {
		logger.Warnw("worker_order_event_dispatch_failed",
			"event_id", payload.EventID,
			"event_type", payload.EventType,
			"order_id", payload.OrderID,
			"error", err,
		)
		return err
	}
	return nil
}
