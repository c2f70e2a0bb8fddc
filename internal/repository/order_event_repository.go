package repository

import (
	"errors"
	"time"

	"github.com/souq-next/internal/models"

	"gorm.io/gorm"
)

// OrderEventRepository 订单事件 outbox 数据访问接口
type OrderEventRepository interface {
	Create(event *models.OrderEvent) error
	GetByEventID(eventID string) (*models.OrderEvent, error)
	ListUnpublished(limit int, maxAttempts int) ([]models.OrderEvent, error)
	MarkPublished(id uint, at time.Time) (int64, error)
	MarkFailed(id uint, reason string) error
	WithTx(tx *gorm.DB) OrderEventRepository
}

// GormOrderEventRepository GORM 实现
type GormOrderEventRepository struct {
	db *gorm.DB
}

// NewOrderEventRepository 创建订单事件仓库
func NewOrderEventRepository(db *gorm.DB) *GormOrderEventRepository {
	return &GormOrderEventRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderEventRepository) WithTx(tx *gorm.DB) OrderEventRepository {
	if tx == nil {
		return r
	}
	return &GormOrderEventRepository{db: tx}
}

// Create 写入事件
func (r *GormOrderEventRepository) Create(event *models.OrderEvent) error {
	return r.db.Create(event).Error
}

// GetByEventID 根据事件ID获取
func (r *GormOrderEventRepository) GetByEventID(eventID string) (*models.OrderEvent, error) {
	if eventID == "" {
		return nil, nil
	}
	var event models.OrderEvent
	if err := r.db.Where("event_id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// ListUnpublished 获取待投递事件（按写入顺序）
func (r *GormOrderEventRepository) ListUnpublished(limit int, maxAttempts int) ([]models.OrderEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	query := r.db.Where("published_at IS NULL")
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	var events []models.OrderEvent
	if err := query.Order("id asc").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// MarkPublished 标记投递成功，已投递的事件不会重复标记
func (r *GormOrderEventRepository) MarkPublished(id uint, at time.Time) (int64, error) {
	result := r.db.Model(&models.OrderEvent{}).
		Where("id = ? AND published_at IS NULL", id).
		Updates(map[string]interface{}{
			"published_at": at,
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   "",
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkFailed 记录投递失败
func (r *GormOrderEventRepository) MarkFailed(id uint, reason string) error {
	if len(reason) > 500 {
		reason = reason[:500]
	}
	return r.db.Model(&models.OrderEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}
