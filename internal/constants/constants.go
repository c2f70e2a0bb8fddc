package constants

// 用户角色常量
const (
	RoleCustomer   = "CUSTOMER"
	RoleVendor     = "VENDOR"
	RoleSuperAdmin = "SUPERADMIN"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 订单状态常量
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// 支付状态常量
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// 支付方式常量
const (
	PaymentMethodCOD      = "CASH_ON_DELIVERY"
	PaymentMethodRazorpay = "RAZORPAY"
	PaymentMethodStripe   = "STRIPE"
	PaymentMethodUPI      = "UPI"
)

// 商品状态常量
const (
	ProductStatusDraft        = "DRAFT"
	ProductStatusActive       = "ACTIVE"
	ProductStatusOutOfStock   = "OUT_OF_STOCK"
	ProductStatusDiscontinued = "DISCONTINUED"
)

// 商家审核状态常量
const (
	VendorApprovalPending   = "PENDING"
	VendorApprovalApproved  = "APPROVED"
	VendorApprovalRejected  = "REJECTED"
	VendorApprovalSuspended = "SUSPENDED"
)

// 币种常量
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// 订单默认值
const (
	DefaultCommissionRate      = 15
	DefaultCancellationReason  = "Cancelled by user"
	OrderNumberPrefix          = "ORD"
	DefaultOrderNumberAttempts = 5
)

// 商家流水类型
const (
	LedgerEntryOrderPlaced    = "ORDER_PLACED"
	LedgerEntryOrderCancelled = "ORDER_CANCELLED"
)

// 订单事件类型（outbox）
const (
	EventOrderPlaced        = "order.placed"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// 事件投递驱动
const (
	EventDriverNone     = "none"
	EventDriverKafka    = "kafka"
	EventDriverRabbitMQ = "rabbitmq"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderEventDispatch = "order:event_dispatch"
)
