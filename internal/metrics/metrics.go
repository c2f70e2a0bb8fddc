package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "souq_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "souq_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "souq_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	checkoutVendorGroups = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "souq_checkout_vendor_groups",
			Help:    "Number of vendor orders created per checkout",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		},
	)

	eventPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "souq_order_event_publishes_total",
			Help: "Total number of order event publish attempts",
		},
		[]string{"event_type", "status"},
	)
)

// 订单操作名称
const (
	OperationCheckout     = "checkout"
	OperationUpdateStatus = "update_status"
	OperationCancel       = "cancel"
)

// ObserveHTTPRequest 记录一次 HTTP 请求
func ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// RecordOrderOperation 记录订单操作指标
func RecordOrderOperation(operation string, success bool) {
	orderOperations.WithLabelValues(operation, statusLabel(success)).Inc()
}

// ObserveCheckoutGroups 记录单次结算拆分出的商家订单数
func ObserveCheckoutGroups(count int) {
	if count <= 0 {
		return
	}
	checkoutVendorGroups.Observe(float64(count))
}

// RecordEventPublish 记录事件投递结果
func RecordEventPublish(eventType string, success bool) {
	eventPublishes.WithLabelValues(eventType, statusLabel(success)).Inc()
}

// Handler Prometheus 抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
