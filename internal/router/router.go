package router

import (
	"fmt"
	"strings"

	"github.com/souq-next/internal/cache"
	"github.com/souq-next/internal/config"
	adminhandlers "github.com/souq-next/internal/http/handlers/admin"
	publichandlers "github.com/souq-next/internal/http/handlers/public"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/metrics"
	"github.com/souq-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（用户侧/平台侧）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "souq"
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.CheckoutRateLimit.BlockSeconds,
		Message:       "Too many checkout attempts, please retry in %d seconds",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	apiV1.Use(UserJWTAuthMiddleware(c.AuthService), RBACMiddleware(c.AuthzService))
	{
		orders := apiV1.Group("/orders")
		{
			orders.POST("", RateLimitMiddleware(cache.Client(), checkoutRule, KeyByPrincipal), publicHandler.CreateOrder)
			orders.GET("/my-orders", publicHandler.ListMyOrders)
			orders.GET("/vendor/orders", publicHandler.ListVendorOrders)
			orders.GET("/all", adminHandler.ListAllOrders)
			orders.GET("/:id", publicHandler.GetOrder)
			orders.PUT("/:id/status", publicHandler.UpdateOrderStatus)
			orders.PUT("/:id/cancel", publicHandler.CancelOrder)
		}

		apiV1.GET("/vendors/:id/reconcile", adminHandler.ReconcileVendor)

		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.GET("/grouped", publicHandler.GetGroupedCart)
			cart.POST("/add", publicHandler.AddCartItem)
			cart.PUT("/update/:productId", publicHandler.UpdateCartItem)
			cart.DELETE("/remove/:productId", publicHandler.RemoveCartItem)
			cart.DELETE("/clear", publicHandler.ClearCart)
		}
	}

	// 指标
	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler()))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true, "status": "ok"})
	})

	return r
}
