package models

import (
	"time"
)

// OrderItem 订单项表（创建后不可变）
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`                  // 商品名称快照
	ImageURL  string    `gorm:"type:varchar(500)" json:"image_url"`                      // 商品图片快照
	Quantity  int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	Currency  string    `gorm:"type:varchar(8);not null" json:"currency"`                // 币种
	LineTotal Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"` // 小计
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
