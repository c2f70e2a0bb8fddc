package provider

import (
	"time"

	"github.com/souq-next/internal/authz"
	"github.com/souq-next/internal/cache"
	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/events"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/queue"
	"github.com/souq-next/internal/repository"
	"github.com/souq-next/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   events.Publisher

	// Repositories
	UserRepo       repository.UserRepository
	VendorRepo     repository.VendorRepository
	ProductRepo    repository.ProductRepository
	CartRepo       repository.CartRepository
	OrderRepo      repository.OrderRepository
	LedgerRepo     repository.LedgerRepository
	OrderEventRepo repository.OrderEventRepository

	// Services
	AuthzService      *authz.Service
	TokenService      *service.TokenService
	AuthService       *service.AuthService
	CartService       *service.CartService
	CheckoutService   *service.CheckoutService
	OrderService      *service.OrderService
	EventRelayService *service.EventRelayService
	ReconcileService  *service.VendorReconcileService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	// 初始化事件投递器，失败时降级为仅写 outbox
	publisher, err := events.New(cfg.Events)
	if err != nil {
		logger.Errorw("provider_init_event_publisher_failed", "driver", cfg.Events.Driver, "error", err)
		publisher = events.NoopPublisher{}
	}

	return NewContainerWithDB(cfg, models.DB, queueClient, publisher)
}

// NewContainerWithDB 基于指定数据库组装仓库与服务
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client, publisher events.Publisher) *Container {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Publisher:   publisher,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_publisher_failed", "error", err)
		}
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.LedgerRepo = repository.NewLedgerRepository(db)
	c.OrderEventRepo = repository.NewOrderEventRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	orderCfg := c.Config.Order
	c.TokenService = service.NewTokenService(c.Config.JWT)
	c.AuthService = service.NewAuthService(c.UserRepo, c.TokenService)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.VendorRepo)
	c.CheckoutService = service.NewCheckoutService(c.OrderRepo, c.CartRepo, c.ProductRepo, c.VendorRepo, c.LedgerRepo, c.OrderEventRepo, c.QueueClient, service.CheckoutOptions{
		DefaultCommissionRate: decimal.NewFromInt(int64(orderCfg.DefaultCommissionRate)),
		OrderNumberAttempts:   orderCfg.OrderNumberAttempts,
		LockTTL:               time.Duration(orderCfg.CheckoutLockSeconds) * time.Second,
	})
	c.ReconcileService = service.NewVendorReconcileService(c.VendorRepo, c.LedgerRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.VendorRepo, c.LedgerRepo, c.OrderEventRepo, c.QueueClient)
	c.EventRelayService = service.NewEventRelayService(c.OrderEventRepo, c.Publisher, service.EventRelayOptions{
		BatchSize:   c.Config.Events.Relay.BatchSize,
		MaxAttempts: c.Config.Events.Relay.MaxAttempts,
	})
}
