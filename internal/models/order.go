package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingAddress 收货地址快照
type ShippingAddress struct {
	FullName     string `gorm:"type:varchar(120)" json:"full_name"`     // 收货人
	Phone        string `gorm:"type:varchar(32)" json:"phone"`          // 联系电话
	AddressLine1 string `gorm:"type:varchar(255)" json:"address_line1"` // 地址行 1
	AddressLine2 string `gorm:"type:varchar(255)" json:"address_line2"` // 地址行 2
	City         string `gorm:"type:varchar(120)" json:"city"`          // 城市
	State        string `gorm:"type:varchar(120)" json:"state"`         // 省/州
	PostalCode   string `gorm:"type:varchar(20)" json:"postal_code"`    // 邮编
	Country      string `gorm:"type:varchar(80)" json:"country"`        // 国家
}

// Order 订单表（单商家）
type Order struct {
	ID                 uint            `gorm:"primarykey" json:"id"`                                           // 主键
	OrderNumber        string          `gorm:"uniqueIndex;not null" json:"order_number"`                       // 订单编号
	CustomerID         uint            `gorm:"index;not null" json:"customer_id"`                              // 下单用户
	VendorID           uint            `gorm:"index;not null" json:"vendor_id"`                                // 商家ID
	Currency           string          `gorm:"type:varchar(8);not null" json:"currency"`                       // 币种
	Subtotal           Money           `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`          // 商品小计
	ShippingFee        Money           `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`      // 运费
	Tax                Money           `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`               // 税费
	Total              Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total"`             // 订单总额
	CommissionRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"commission_rate"`    // 下单时佣金比例快照
	CommissionAmount   Money           `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"` // 平台佣金
	VendorEarnings     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"vendor_earnings"`   // 商家收益
	ShippingAddress    ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`          // 收货地址快照
	PaymentMethod      string          `gorm:"type:varchar(32);not null" json:"payment_method"`                // 支付方式
	PaymentStatus      string          `gorm:"type:varchar(20);index;not null" json:"payment_status"`          // 支付状态
	Status             string          `gorm:"type:varchar(20);index;not null" json:"status"`                  // 订单状态
	TrackingNumber     string          `gorm:"type:varchar(120)" json:"tracking_number,omitempty"`             // 物流单号
	CustomerNotes      string          `gorm:"type:text" json:"customer_notes,omitempty"`                      // 买家备注
	VendorNotes        string          `gorm:"type:text" json:"vendor_notes,omitempty"`                        // 商家备注
	CancellationReason string          `gorm:"type:varchar(500)" json:"cancellation_reason,omitempty"`         // 取消原因
	PaidAt             *time.Time      `gorm:"index" json:"paid_at"`                                           // 支付时间
	ShippedAt          *time.Time      `json:"shipped_at"`                                                     // 发货时间
	DeliveredAt        *time.Time      `json:"delivered_at"`                                                   // 送达时间
	CancelledAt        *time.Time      `gorm:"index" json:"cancelled_at"`                                      // 取消时间
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt          time.Time       `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`                                                 // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
