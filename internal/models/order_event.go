package models

import "time"

// OrderEvent 订单事件 outbox（与业务写入同事务）
type OrderEvent struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                  // 主键
	EventID     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"event_id"` // 全局事件ID
	EventType   string     `gorm:"type:varchar(64);index;not null" json:"event_type"`     // 事件类型
	OrderID     uint       `gorm:"index;not null" json:"order_id"`                        // 订单ID
	VendorID    uint       `gorm:"index;not null" json:"vendor_id"`                       // 商家ID
	Payload     string     `gorm:"type:text;not null" json:"payload"`                     // JSON 载荷
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`                    // 投递尝试次数
	LastError   string     `gorm:"type:varchar(500)" json:"last_error,omitempty"`         // 最近一次投递错误
	PublishedAt *time.Time `gorm:"index" json:"published_at"`                             // 投递成功时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (OrderEvent) TableName() string {
	return "order_events"
}
