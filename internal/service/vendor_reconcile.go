package service

import (
	"context"

	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"
)

// VendorReconcileService 商家统计与流水对账
type VendorReconcileService struct {
	vendorRepo repository.VendorRepository
	ledgerRepo repository.LedgerRepository
}

// NewVendorReconcileService 创建对账服务
func NewVendorReconcileService(vendorRepo repository.VendorRepository, ledgerRepo repository.LedgerRepository) *VendorReconcileService {
	return &VendorReconcileService{vendorRepo: vendorRepo, ledgerRepo: ledgerRepo}
}

// VendorReconcileResult 对账结果
type VendorReconcileResult struct {
	VendorID       uint         `json:"vendor_id"`
	TotalSales     models.Money `json:"total_sales"`
	TotalOrders    int64        `json:"total_orders"`
	TotalEarnings  models.Money `json:"total_earnings"`
	LedgerSales    models.Money `json:"ledger_sales"`
	LedgerOrders   int64        `json:"ledger_orders"`
	LedgerEarnings models.Money `json:"ledger_earnings"`
	Balanced       bool         `json:"balanced"`
}

// Reconcile 比对商家累计字段与流水汇总
func (s *VendorReconcileService) Reconcile(ctx context.Context, vendorID uint) (*VendorReconcileResult, error) {
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	totals, err := s.ledgerRepo.SumByVendor(vendorID)
	if err != nil {
		return nil, err
	}

	result := &VendorReconcileResult{
		VendorID:       vendor.ID,
		TotalSales:     vendor.TotalSales,
		TotalOrders:    vendor.TotalOrders,
		TotalEarnings:  vendor.TotalEarnings,
		LedgerSales:    totals.Sales,
		LedgerOrders:   totals.Orders,
		LedgerEarnings: totals.Earnings,
	}
	result.Balanced = vendor.TotalSales.Equal(totals.Sales) &&
		vendor.TotalOrders == totals.Orders &&
		vendor.TotalEarnings.Equal(totals.Earnings)
	if !result.Balanced {
		logger.FromContext(ctx).Warnw("vendor_reconcile_mismatch",
			"vendor_id", vendor.ID,
			"total_sales", vendor.TotalSales.String(),
			"ledger_sales", totals.Sales.String(),
			"total_orders", vendor.TotalOrders,
			"ledger_orders", totals.Orders,
		)
	}
	return result, nil
}
