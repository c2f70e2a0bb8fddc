package service

import (
	"context"
	"strings"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/metrics"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/queue"
	"github.com/souq-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单生命周期服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	vendorRepo  repository.VendorRepository
	eventRepo   repository.OrderEventRepository
	effects     orderEffectRepos
	queueClient *queue.Client

	now func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, vendorRepo repository.VendorRepository, ledgerRepo repository.LedgerRepository, eventRepo repository.OrderEventRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
		eventRepo:  eventRepo,
		effects: orderEffectRepos{
			products: productRepo,
			vendors:  vendorRepo,
			ledger:   ledgerRepo,
			events:   eventRepo,
		},
		queueClient: queueClient,
		now:         time.Now,
	}
}

// UpdateStatusInput 商家更新订单状态输入
type UpdateStatusInput struct {
	Status         string
	TrackingNumber string
	VendorNotes    string
}

// UpdateStatus 商家推进订单状态：允许跳级，禁止回退，重复提交当前状态视为成功
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, principal Principal, input UpdateStatusInput) (*models.Order, error) {
	target := normalizeOrderStatus(input.Status)
	if !isVendorSettableStatus(target) {
		return nil, ErrInvalidStatus
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	owns, err := s.vendorOwnsOrder(principal, order)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrForbidden
	}

	from := order.Status
	if from != target && !isForwardTransition(from, target) {
		return nil, ErrInvalidState
	}

	now := s.now()
	updates := map[string]interface{}{}
	if tracking := strings.TrimSpace(input.TrackingNumber); tracking != "" {
		updates["tracking_number"] = tracking
	}
	if notes := strings.TrimSpace(input.VendorNotes); notes != "" {
		updates["vendor_notes"] = notes
	}

	if from == target {
		if len(updates) > 0 {
			updates["updated_at"] = now
			affected, err := s.orderRepo.TransitionStatus(order.ID, []string{target}, target, updates)
			if err != nil {
				return nil, err
			}
			if affected == 0 {
				return nil, ErrInvalidState
			}
			return s.reload(order.ID)
		}
		return order, nil
	}

	updates["updated_at"] = now
	switch target {
	case constants.OrderStatusShipped:
		updates["shipped_at"] = gorm.Expr("COALESCE(shipped_at, ?)", now)
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = gorm.Expr("COALESCE(delivered_at, ?)", now)
		updates["payment_status"] = constants.PaymentStatusPaid
		updates["paid_at"] = gorm.Expr("COALESCE(paid_at, ?)", now)
	}

	var event *models.OrderEvent
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).TransitionStatus(order.ID, legalSourcesFor(target), target, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidState
		}
		order.Status = target
		event, err = appendOrderEvent(s.eventRepo.WithTx(tx), order, constants.EventOrderStatusChanged, from, now)
		return err
	})
	metrics.RecordOrderOperation(metrics.OperationUpdateStatus, err == nil)
	if err != nil {
		return nil, err
	}
	dispatchOrderEvents(ctx, s.queueClient, []*models.OrderEvent{event})
	logger.FromContext(ctx).Infow("order_status_updated",
		"order_id", order.ID,
		"from_status", from,
		"to_status", target,
		"vendor_id", order.VendorID,
	)
	return s.reload(order.ID)
}

// Cancel 取消订单（买家或所属商家），并精确回滚库存、销量与商家统计
func (s *OrderService) Cancel(ctx context.Context, orderID uint, principal Principal, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.CustomerID != principal.UserID {
		owns, err := s.vendorOwnsOrder(principal, order)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, ErrForbidden
		}
	}
	if !isCancellableStatus(order.Status) {
		return nil, ErrCannotCancel
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = constants.DefaultCancellationReason
	}
	now := s.now()
	from := order.Status

	var event *models.OrderEvent
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).TransitionStatus(order.ID, cancellableStatuses, constants.OrderStatusCancelled, map[string]interface{}{
			"cancelled_at":        now,
			"cancellation_reason": reason,
			"updated_at":          now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCannotCancel
		}
		order.Status = constants.OrderStatusCancelled
		event, err = applyOrderEffect(s.effects.withTx(tx), order, -1, now)
		return err
	})
	metrics.RecordOrderOperation(metrics.OperationCancel, err == nil)
	if err != nil {
		if !isBusinessError(err) {
			logger.FromContext(ctx).Errorw("order_cancel_failed", "order_id", order.ID, "error", err)
		}
		return nil, err
	}
	dispatchOrderEvents(ctx, s.queueClient, []*models.OrderEvent{event})
	logger.FromContext(ctx).Infow("order_cancelled",
		"order_id", order.ID,
		"from_status", from,
		"cancelled_by", principal.UserID,
	)
	return s.reload(order.ID)
}

// GetByID 查看订单：买家本人、所属商家或平台管理员
func (s *OrderService) GetByID(ctx context.Context, orderID uint, principal Principal) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if principal.IsSuperAdmin() || order.CustomerID == principal.UserID {
		return order, nil
	}
	owns, err := s.vendorOwnsOrder(principal, order)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrForbidden
	}
	return order, nil
}

// OrderListQuery 订单列表查询参数
type OrderListQuery struct {
	Status string
	Page   int
	Limit  int
}

// OrderPage 分页结果
type OrderPage struct {
	Orders      []models.Order
	Total       int64
	TotalPages  int
	CurrentPage int
}

// ListMyOrders 买家订单列表
func (s *OrderService) ListMyOrders(ctx context.Context, principal Principal, query OrderListQuery) (*OrderPage, error) {
	page, limit := normalizePage(query.Page, query.Limit, 10)
	orders, total, err := s.orderRepo.ListByCustomer(repository.OrderListFilter{
		CustomerID: principal.UserID,
		Status:     normalizeOrderStatus(query.Status),
		Page:       page,
		PageSize:   limit,
	})
	if err != nil {
		return nil, err
	}
	return buildOrderPage(orders, total, page, limit), nil
}

// ListVendorOrders 商家订单列表
func (s *OrderService) ListVendorOrders(ctx context.Context, principal Principal, query OrderListQuery) (*OrderPage, error) {
	vendor, err := s.vendorRepo.GetByUserID(principal.UserID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	page, limit := normalizePage(query.Page, query.Limit, 10)
	orders, total, err := s.orderRepo.ListByVendor(repository.OrderListFilter{
		VendorID: vendor.ID,
		Status:   normalizeOrderStatus(query.Status),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}
	return buildOrderPage(orders, total, page, limit), nil
}

// ListAll 平台全部订单
func (s *OrderService) ListAll(ctx context.Context, query OrderListQuery) (*OrderPage, error) {
	page, limit := normalizePage(query.Page, query.Limit, 20)
	orders, total, err := s.orderRepo.ListAll(repository.OrderListFilter{
		Status:   normalizeOrderStatus(query.Status),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}
	return buildOrderPage(orders, total, page, limit), nil
}

func (s *OrderService) vendorOwnsOrder(principal Principal, order *models.Order) (bool, error) {
	if !principal.IsVendor() {
		return false, nil
	}
	vendor, err := s.vendorRepo.GetByUserID(principal.UserID)
	if err != nil {
		return false, err
	}
	return vendor != nil && vendor.ID == order.VendorID, nil
}

func (s *OrderService) reload(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func buildOrderPage(orders []models.Order, total int64, page, limit int) *OrderPage {
	if orders == nil {
		orders = []models.Order{}
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &OrderPage{
		Orders:      orders,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}
