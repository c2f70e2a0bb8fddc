package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vendor 商家表
type Vendor struct {
	ID             uint            `gorm:"primarykey" json:"id"`                                            // 主键
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`                             // 所属用户
	StoreName      string          `gorm:"type:varchar(120);not null" json:"store_name"`                    // 店铺名称
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:15" json:"commission_rate"`    // 平台佣金比例（百分比）
	Currency       string          `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`          // 结算币种
	ApprovalStatus string          `gorm:"type:varchar(20);index;default:'PENDING'" json:"approval_status"` // 审核状态
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`                          // 是否营业
	TotalSales     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_sales"`        // 累计销售额
	TotalOrders    int64           `gorm:"not null;default:0" json:"total_orders"`                          // 累计订单数
	TotalEarnings  Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`     // 累计收益
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt      time.Time       `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`                                                  // 软删除时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
