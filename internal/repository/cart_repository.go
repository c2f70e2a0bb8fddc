package repository

import (
	"errors"
	"time"

	"github.com/souq-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetByUserForUpdate(userID uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	GetItem(cartID, productID uint) (*models.CartItem, error)
	SaveItem(item *models.CartItem) error
	DeleteItem(cartID, itemID uint) (int64, error)
	ClearItems(cartID uint) error
	SaveTotals(cart *models.Cart, expectedVersion int64) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByUser 获取用户购物车（含购物车项与商品）
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	return r.getByUser(r.db, userID)
}

// GetByUserForUpdate 加锁获取用户购物车，仅在事务内使用
func (r *GormCartRepository) GetByUserForUpdate(userID uint) (*models.Cart, error) {
	return r.getByUser(forUpdate(r.db), userID)
}

func (r *GormCartRepository) getByUser(query *gorm.DB, userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, nil
	}
	var cart models.Cart
	if err := query.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("cart_id = ?", cart.ID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Omit("Items").Create(cart).Error
}

// GetItem 按商品获取购物车项
func (r *GormCartRepository) GetItem(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem 新增或更新购物车项
func (r *GormCartRepository) SaveItem(item *models.CartItem) error {
	if item == nil {
		return errors.New("cart item is nil")
	}
	item.UpdatedAt = time.Now()
	if item.ID == 0 {
		return r.db.Omit("Product").Create(item).Error
	}
	return r.db.Omit("Product").Save(item).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(cartID, itemID uint) (int64, error) {
	result := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// SaveTotals 按版本号写回派生字段，返回受影响行数（0 表示版本冲突）
func (r *GormCartRepository) SaveTotals(cart *models.Cart, expectedVersion int64) (int64, error) {
	if cart == nil || cart.ID == 0 {
		return 0, errors.New("cart is nil")
	}
	subtotals := cart.Subtotals
	if subtotals == nil {
		subtotals = models.CurrencyAmounts{}
	}
	result := r.db.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, expectedVersion).
		Updates(map[string]interface{}{
			"total_items": cart.TotalItems,
			"subtotals":   subtotals,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		cart.Version = expectedVersion + 1
	}
	return result.RowsAffected, nil
}
