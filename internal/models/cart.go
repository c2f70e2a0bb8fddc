package models

import (
	"time"
)

// Cart 购物车（每个用户唯一）
type Cart struct {
	ID         uint            `gorm:"primarykey" json:"id"`                  // 主键
	UserID     uint            `gorm:"uniqueIndex;not null" json:"user_id"`   // 用户ID
	TotalItems int             `gorm:"not null;default:0" json:"total_items"` // 商品总件数（派生）
	Subtotals  CurrencyAmounts `gorm:"type:text" json:"subtotals"`            // 按币种小计（派生）
	Version    int64           `gorm:"not null;default:0" json:"version"`     // 乐观锁版本
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt  time.Time       `gorm:"index" json:"updated_at"`               // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`    // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"` // 商品ID
	VendorID  uint      `gorm:"not null;index" json:"vendor_id"`                         // 商家ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 加购时单价
	Currency  string    `gorm:"type:varchar(8);not null" json:"currency"`                // 币种
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                 // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// Recalculate 根据购物车项重新计算派生字段
func (c *Cart) Recalculate() {
	if c == nil {
		return
	}
	total := 0
	subtotals := CurrencyAmounts{}
	for _, item := range c.Items {
		total += item.Quantity
		subtotals.Add(item.Currency, item.UnitPrice.Times(item.Quantity))
	}
	c.TotalItems = total
	c.Subtotals = subtotals
}
