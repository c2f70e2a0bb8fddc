package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/souq-next/internal/cache"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/metrics"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/queue"
	"github.com/souq-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var supportedPaymentMethods = map[string]struct{}{
	constants.PaymentMethodCOD:      {},
	constants.PaymentMethodRazorpay: {},
	constants.PaymentMethodStripe:   {},
	constants.PaymentMethodUPI:      {},
}

// CheckoutOptions 结算配置
type CheckoutOptions struct {
	DefaultCommissionRate decimal.Decimal
	OrderNumberAttempts   int
	LockTTL               time.Duration
}

// CheckoutService 结算服务：购物车按商家拆分为多个订单
type CheckoutService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	vendorRepo  repository.VendorRepository
	effects     orderEffectRepos
	queueClient *queue.Client
	opts        CheckoutOptions

	now         func() time.Time
	orderNumber func(time.Time) string
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, vendorRepo repository.VendorRepository, ledgerRepo repository.LedgerRepository, eventRepo repository.OrderEventRepository, queueClient *queue.Client, opts CheckoutOptions) *CheckoutService {
	if opts.DefaultCommissionRate.IsZero() {
		opts.DefaultCommissionRate = decimal.NewFromInt(constants.DefaultCommissionRate)
	}
	if opts.OrderNumberAttempts <= 0 {
		opts.OrderNumberAttempts = constants.DefaultOrderNumberAttempts
	}
	return &CheckoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		effects: orderEffectRepos{
			products: productRepo,
			vendors:  vendorRepo,
			ledger:   ledgerRepo,
			events:   eventRepo,
		},
		queueClient: queueClient,
		opts:        opts,
		now:         time.Now,
		orderNumber: generateOrderNumber,
	}
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	CustomerID      uint
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	CustomerNotes   string
}

// vendorOrderPlan 单个商家的订单计划
type vendorOrderPlan struct {
	VendorID uint
	Vendor   *models.Vendor
	Currency string
	Items    []models.OrderItem
	Subtotal models.Money
}

// PlaceOrder 结算购物车，按商家生成订单；任一环节失败则整体回滚
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) ([]models.Order, error) {
	if err := normalizePlaceOrderInput(&input); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx, "customer_id", input.CustomerID)

	acquired, release, err := cache.AcquireCheckoutLock(ctx, input.CustomerID, s.opts.LockTTL)
	if err != nil {
		log.Warnw("checkout_lock_unavailable", "error", err)
	} else if !acquired {
		return nil, ErrCheckoutInProgress
	}
	defer release()

	now := s.now()
	var (
		orders  []models.Order
		outbox  []*models.OrderEvent
		cartRef uint
	)
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orders = nil
		outbox = nil
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetByUserForUpdate(input.CustomerID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrCartEmpty
		}
		cartRef = cart.ID

		plans, err := s.buildVendorPlans(tx, cart)
		if err != nil {
			return err
		}

		effects := s.effects.withTx(tx)
		for _, plan := range plans {
			order, err := s.createVendorOrder(tx, input, plan, now)
			if err != nil {
				return err
			}
			event, err := applyOrderEffect(effects, order, 1, now)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
			outbox = append(outbox, event)
		}

		expected := cart.Version
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		cart.Items = nil
		cart.Recalculate()
		affected, err := cartRepo.SaveTotals(cart, expected)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCheckoutConflict
		}
		return nil
	})
	metrics.RecordOrderOperation(metrics.OperationCheckout, err == nil)
	if err != nil {
		if !isBusinessError(err) {
			log.Errorw("checkout_failed", "cart_id", cartRef, "error", err)
		}
		return nil, err
	}

	metrics.ObserveCheckoutGroups(len(orders))
	dispatchOrderEvents(ctx, s.queueClient, outbox)
	for _, order := range orders {
		log.Infow("checkout_order_created",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"vendor_id", order.VendorID,
			"total", order.Total.String(),
			"currency", order.Currency,
		)
	}
	return orders, nil
}

func normalizePlaceOrderInput(input *PlaceOrderInput) error {
	if input.CustomerID == 0 {
		return newValidationError("customer", "customer is required")
	}
	addr := &input.ShippingAddress
	addr.FullName = strings.TrimSpace(addr.FullName)
	addr.Phone = strings.TrimSpace(addr.Phone)
	if addr.FullName == "" || addr.Phone == "" {
		return newValidationError("", "Shipping address with fullName and phone is required")
	}
	method := strings.ToUpper(strings.TrimSpace(input.PaymentMethod))
	if method == "" {
		method = constants.PaymentMethodCOD
	}
	if _, ok := supportedPaymentMethods[method]; !ok {
		return newValidationError("paymentMethod", "unsupported payment method")
	}
	input.PaymentMethod = method
	input.CustomerNotes = strings.TrimSpace(input.CustomerNotes)
	return nil
}

// buildVendorPlans 先校验全部购物车项，再按商家分组（商家ID升序）
func (s *CheckoutService) buildVendorPlans(tx *gorm.DB, cart *models.Cart) ([]*vendorOrderPlan, error) {
	productIDs := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.WithTx(tx).ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uint]*models.Product, len(products))
	vendorIDs := make([]uint, 0, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
		vendorIDs = append(vendorIDs, products[i].VendorID)
	}
	vendors, err := s.vendorRepo.WithTx(tx).ListByIDs(vendorIDs)
	if err != nil {
		return nil, err
	}
	vendorMap := make(map[uint]*models.Vendor, len(vendors))
	for i := range vendors {
		vendorMap[vendors[i].ID] = &vendors[i]
	}

	for _, item := range cart.Items {
		product := productMap[item.ProductID]
		if product == nil || product.Status != constants.ProductStatusActive {
			return nil, &ProductUnavailableError{ProductID: item.ProductID, Name: cartItemName(item, product)}
		}
		if vendor := vendorMap[product.VendorID]; vendor != nil && !vendorCanSell(vendor) {
			return nil, &ProductUnavailableError{ProductID: product.ID, Name: product.Name}
		}
		if item.Quantity > product.Stock {
			return nil, &InsufficientStockError{ProductID: product.ID, Name: product.Name, Available: product.Stock}
		}
	}

	planMap := make(map[uint]*vendorOrderPlan)
	for _, item := range cart.Items {
		product := productMap[item.ProductID]
		plan, ok := planMap[product.VendorID]
		if !ok {
			plan = &vendorOrderPlan{
				VendorID: product.VendorID,
				Vendor:   vendorMap[product.VendorID],
				Currency: product.Currency,
				Subtotal: models.ZeroMoney(),
			}
			planMap[product.VendorID] = plan
		}
		if product.Currency != plan.Currency {
			return nil, newValidationError("currency", fmt.Sprintf("mixed currencies for vendor %d", product.VendorID))
		}
		lineTotal := product.Price.Times(item.Quantity)
		plan.Items = append(plan.Items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Currency:  product.Currency,
			LineTotal: lineTotal,
		})
		plan.Subtotal = plan.Subtotal.Plus(lineTotal)
	}

	plans := make([]*vendorOrderPlan, 0, len(planMap))
	for _, plan := range planMap {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].VendorID < plans[j].VendorID })
	return plans, nil
}

// createVendorOrder 创建单个商家订单；订单号冲突时在保存点内重试
func (s *CheckoutService) createVendorOrder(tx *gorm.DB, input PlaceOrderInput, plan *vendorOrderPlan, now time.Time) (*models.Order, error) {
	rate := s.opts.DefaultCommissionRate
	if plan.Vendor != nil {
		rate = plan.Vendor.CommissionRate
	}
	shipping := models.ZeroMoney()
	tax := models.ZeroMoney()
	total := plan.Subtotal.Plus(shipping).Plus(tax)
	commission, earnings := splitCommission(total, rate)

	orderRepo := s.orderRepo.WithTx(tx)
	for attempt := 1; attempt <= s.opts.OrderNumberAttempts; attempt++ {
		number := s.orderNumber(now)
		exists, err := orderRepo.ExistsByOrderNumber(number)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		order := &models.Order{
			OrderNumber:      number,
			CustomerID:       input.CustomerID,
			VendorID:         plan.VendorID,
			Currency:         plan.Currency,
			Subtotal:         plan.Subtotal,
			ShippingFee:      shipping,
			Tax:              tax,
			Total:            total,
			CommissionRate:   rate,
			CommissionAmount: commission,
			VendorEarnings:   earnings,
			ShippingAddress:  input.ShippingAddress,
			PaymentMethod:    input.PaymentMethod,
			PaymentStatus:    constants.PaymentStatusPending,
			Status:           constants.OrderStatusPending,
			CustomerNotes:    input.CustomerNotes,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		items := make([]models.OrderItem, len(plan.Items))
		copy(items, plan.Items)
		for i := range items {
			items[i].CreatedAt = now
		}
		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.orderRepo.WithTx(sp).Create(order, items)
		})
		if err == nil {
			return order, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warnw("checkout_order_number_conflict", "order_number", number, "attempt", attempt)
			continue
		}
		return nil, err
	}
	return nil, ErrOrderNumberExhaust
}

// splitCommission 佣金 = round2(total*rate/100)，商家收益为余额
func splitCommission(total models.Money, rate decimal.Decimal) (models.Money, models.Money) {
	commission := models.NewMoneyFromDecimal(total.Mul(rate).Div(decimal.NewFromInt(100)))
	return commission, total.Minus(commission)
}

func vendorCanSell(vendor *models.Vendor) bool {
	return vendor.ApprovalStatus == constants.VendorApprovalApproved && vendor.IsActive
}

func cartItemName(item models.CartItem, product *models.Product) string {
	if product != nil {
		return product.Name
	}
	if item.Product != nil && item.Product.Name != "" {
		return item.Product.Name
	}
	return "Unknown"
}

// dispatchOrderEvents 提交后投递 outbox 事件，失败由补偿轮询兜底
func dispatchOrderEvents(ctx context.Context, client *queue.Client, events []*models.OrderEvent) {
	for _, event := range events {
		if event == nil {
			continue
		}
		if err := client.EnqueueOrderEventDispatch(queue.OrderEventDispatchPayload{
			EventID:   event.EventID,
			EventType: event.EventType,
			OrderID:   event.OrderID,
		}); err != nil {
			logger.FromContext(ctx).Warnw("order_event_enqueue_failed",
				"event_id", event.EventID,
				"order_id", event.OrderID,
				"error", err,
			)
		}
	}
}

// isBusinessError 判断是否为可预期的业务错误
func isBusinessError(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrCartEmpty, ErrCartItemNotFound, ErrProductNotFound, ErrProductUnavailable,
		ErrInsufficientStock, ErrOrderNotFound, ErrVendorNotFound, ErrInvalidStatus, ErrInvalidState,
		ErrForbidden, ErrCheckoutConflict, ErrCheckoutInProgress,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
