package worker

import (
	"context"
	"errors"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultRelayInterval = 30 * time.Second

// Service 异步队列服务
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	relayInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer, relayInterval time.Duration) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	if relayInterval <= 0 {
		relayInterval = defaultRelayInterval
	}
	return &Service{
		name:          "worker",
		server:        server,
		mux:           mux,
		consumer:      consumer,
		relayInterval: relayInterval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	RunRelayLoop(ctx, s.consumer, s.relayInterval)
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunRelayLoop 周期性补投 outbox 中未投递的事件，直到 ctx 结束
func RunRelayLoop(ctx context.Context, consumer *Consumer, interval time.Duration) {
	if consumer == nil || consumer.Container == nil || consumer.EventRelayService == nil {
		return
	}
	if interval <= 0 {
		interval = defaultRelayInterval
	}
	runOnce := func() {
		count, err := consumer.EventRelayService.RelayPending(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warnw("worker_event_relay_failed", "error", err)
			return
		}
		if count > 0 {
			logger.Infow("worker_event_relay_published", "count", count)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
