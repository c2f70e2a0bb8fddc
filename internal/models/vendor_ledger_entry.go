package models

import "time"

// VendorLedgerEntry 商家资金流水（只追加，金额带符号）
type VendorLedgerEntry struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                        // 主键
	VendorID      uint      `gorm:"index;not null" json:"vendor_id"`                             // 商家ID
	OrderID       uint      `gorm:"index;not null" json:"order_id"`                              // 订单ID
	EntryType     string    `gorm:"type:varchar(32);not null" json:"entry_type"`                 // 流水类型
	Currency      string    `gorm:"type:varchar(8);not null" json:"currency"`                    // 币种
	SalesAmount   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"sales_amount"`   // 销售额变动
	OrderCount    int64     `gorm:"not null;default:0" json:"order_count"`                       // 订单数变动
	EarningsDelta Money     `gorm:"type:decimal(20,2);not null;default:0" json:"earnings_delta"` // 收益变动
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                     // 创建时间
}

// TableName 指定表名
func (VendorLedgerEntry) TableName() string {
	return "vendor_ledger_entries"
}
