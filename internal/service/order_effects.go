package service

import (
	"encoding/json"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderEffectRepos 订单副作用涉及的仓库集合
type orderEffectRepos struct {
	products repository.ProductRepository
	vendors  repository.VendorRepository
	ledger   repository.LedgerRepository
	events   repository.OrderEventRepository
}

func (r orderEffectRepos) withTx(tx *gorm.DB) orderEffectRepos {
	return orderEffectRepos{
		products: r.products.WithTx(tx),
		vendors:  r.vendors.WithTx(tx),
		ledger:   r.ledger.WithTx(tx),
		events:   r.events.WithTx(tx),
	}
}

// orderEventPayload outbox 事件载荷
type orderEventPayload struct {
	EventID     string       `json:"event_id"`
	EventType   string       `json:"event_type"`
	OrderID     uint         `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	CustomerID  uint         `json:"customer_id"`
	VendorID    uint         `json:"vendor_id"`
	Status      string       `json:"status"`
	FromStatus  string       `json:"from_status,omitempty"`
	Currency    string       `json:"currency"`
	Total       models.Money `json:"total"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// applyOrderEffect 按符号施加或撤销订单对库存、销量、商家统计的影响，
// 并追加一条流水与一条 outbox 事件。sign 只能为 +1 或 -1。
func applyOrderEffect(repos orderEffectRepos, order *models.Order, sign int, now time.Time) (*models.OrderEvent, error) {
	if order == nil || (sign != 1 && sign != -1) {
		return nil, newValidationError("order", "invalid order effect")
	}

	for _, item := range order.Items {
		if sign > 0 {
			affected, err := repos.products.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return nil, err
			}
			if affected == 0 {
				available := 0
				if product, err := repos.products.GetByID(item.ProductID); err == nil && product != nil {
					available = product.Stock
				}
				return nil, &InsufficientStockError{ProductID: item.ProductID, Name: item.Name, Available: available}
			}
			continue
		}
		if _, err := repos.products.RestoreStock(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	multiplier := models.NewMoneyFromInt(int64(sign))
	sales := models.NewMoneyFromDecimal(order.Total.Mul(multiplier.Decimal))
	earnings := models.NewMoneyFromDecimal(order.VendorEarnings.Mul(multiplier.Decimal))
	if _, err := repos.vendors.ApplyStats(order.VendorID, sales, int64(sign), earnings); err != nil {
		return nil, err
	}

	entryType := constants.LedgerEntryOrderPlaced
	eventType := constants.EventOrderPlaced
	if sign < 0 {
		entryType = constants.LedgerEntryOrderCancelled
		eventType = constants.EventOrderCancelled
	}
	if err := repos.ledger.Create(&models.VendorLedgerEntry{
		VendorID:      order.VendorID,
		OrderID:       order.ID,
		EntryType:     entryType,
		Currency:      order.Currency,
		SalesAmount:   sales,
		OrderCount:    int64(sign),
		EarningsDelta: earnings,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	return appendOrderEvent(repos.events, order, eventType, "", now)
}

// appendOrderEvent 写入 outbox 事件（与业务写入同事务）
func appendOrderEvent(repo repository.OrderEventRepository, order *models.Order, eventType, fromStatus string, now time.Time) (*models.OrderEvent, error) {
	payload := orderEventPayload{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		VendorID:    order.VendorID,
		Status:      order.Status,
		FromStatus:  fromStatus,
		Currency:    order.Currency,
		Total:       order.Total,
		OccurredAt:  now,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	row := &models.OrderEvent{
		EventID:   payload.EventID,
		EventType: eventType,
		OrderID:   order.ID,
		VendorID:  order.VendorID,
		Payload:   string(body),
		CreatedAt: now,
	}
	if err := repo.Create(row); err != nil {
		return nil, err
	}
	return row, nil
}
