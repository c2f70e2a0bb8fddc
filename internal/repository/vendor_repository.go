package repository

import (
	"errors"

	"github.com/souq-next/internal/models"

	"gorm.io/gorm"
)

// VendorRepository 商家数据访问接口
type VendorRepository interface {
	GetByID(id uint) (*models.Vendor, error)
	GetByUserID(userID uint) (*models.Vendor, error)
	ListByIDs(ids []uint) ([]models.Vendor, error)
	Create(vendor *models.Vendor) error
	ApplyStats(vendorID uint, sales models.Money, orders int64, earnings models.Money) (int64, error)
	WithTx(tx *gorm.DB) VendorRepository
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建商家仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// GetByID 根据 ID 获取商家
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	if id == 0 {
		return nil, nil
	}
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByUserID 根据所属用户获取商家
func (r *GormVendorRepository) GetByUserID(userID uint) (*models.Vendor, error) {
	if userID == 0 {
		return nil, nil
	}
	var vendor models.Vendor
	if err := r.db.Where("user_id = ?", userID).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// ListByIDs 批量获取商家
func (r *GormVendorRepository) ListByIDs(ids []uint) ([]models.Vendor, error) {
	if len(ids) == 0 {
		return []models.Vendor{}, nil
	}
	var vendors []models.Vendor
	if err := r.db.Where("id IN ?", ids).Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Create 创建商家
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// ApplyStats 原子累加商家统计（增量可为负）
func (r *GormVendorRepository) ApplyStats(vendorID uint, sales models.Money, orders int64, earnings models.Money) (int64, error) {
	if vendorID == 0 {
		return 0, errors.New("invalid vendor id")
	}
	result := r.db.Unscoped().Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]interface{}{
			"total_sales":    gorm.Expr("total_sales + ?", sales),
			"total_orders":   gorm.Expr("total_orders + ?", orders),
			"total_earnings": gorm.Expr("total_earnings + ?", earnings),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
