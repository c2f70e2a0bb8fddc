package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（认证主体来源）
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`                            // 主键
	Name      string         `gorm:"type:varchar(120);not null" json:"name"`          // 姓名
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`               // 邮箱
	Phone     string         `gorm:"type:varchar(32)" json:"phone,omitempty"`         // 手机号
	Role      string         `gorm:"type:varchar(20);index;not null" json:"role"`     // 角色 CUSTOMER/VENDOR/SUPERADMIN
	Status    string         `gorm:"type:varchar(20);default:'active'" json:"status"` // 账号状态
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
