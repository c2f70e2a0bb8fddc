package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（目录只读视图 + 库存计数）
type Product struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                          // 主键
	VendorID   uint           `gorm:"not null;index" json:"vendor_id"`                               // 商家ID
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`                        // 商品名称
	Price      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`            // 售价
	Currency   string         `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`        // 币种
	Stock      int            `gorm:"not null;default:0" json:"stock"`                               // 库存
	SalesCount int            `gorm:"not null;default:0" json:"sales_count"`                         // 销量
	Status     string         `gorm:"type:varchar(20);index;not null;default:'DRAFT'" json:"status"` // 商品状态
	ImageURL   string         `gorm:"type:varchar(500)" json:"image_url"`                            // 主图
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
