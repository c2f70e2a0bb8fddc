package repository

import (
	"github.com/souq-next/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository 商家流水数据访问接口
type LedgerRepository interface {
	Create(entry *models.VendorLedgerEntry) error
	ListByVendor(vendorID uint) ([]models.VendorLedgerEntry, error)
	SumByVendor(vendorID uint) (*LedgerTotals, error)
	WithTx(tx *gorm.DB) LedgerRepository
}

// LedgerTotals 流水汇总
type LedgerTotals struct {
	Sales    models.Money
	Orders   int64
	Earnings models.Money
}

// GormLedgerRepository GORM 实现
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建流水仓库
func NewLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLedgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	if tx == nil {
		return r
	}
	return &GormLedgerRepository{db: tx}
}

// Create 追加流水
func (r *GormLedgerRepository) Create(entry *models.VendorLedgerEntry) error {
	return r.db.Create(entry).Error
}

// ListByVendor 获取商家流水
func (r *GormLedgerRepository) ListByVendor(vendorID uint) ([]models.VendorLedgerEntry, error) {
	var entries []models.VendorLedgerEntry
	if err := r.db.Where("vendor_id = ?", vendorID).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumByVendor 汇总商家流水，用于与商家统计字段对账
func (r *GormLedgerRepository) SumByVendor(vendorID uint) (*LedgerTotals, error) {
	entries, err := r.ListByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	totals := &LedgerTotals{Sales: models.ZeroMoney(), Earnings: models.ZeroMoney()}
	for _, entry := range entries {
		totals.Sales = totals.Sales.Plus(entry.SalesAmount)
		totals.Orders += entry.OrderCount
		totals.Earnings = totals.Earnings.Plus(entry.EarningsDelta)
	}
	return totals, nil
}
