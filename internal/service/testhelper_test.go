package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	userRepo    *repository.GormUserRepository
	vendorRepo  *repository.GormVendorRepository
	productRepo *repository.GormProductRepository
	cartRepo    *repository.GormCartRepository
	orderRepo   *repository.GormOrderRepository
	ledgerRepo  *repository.GormLedgerRepository
	eventRepo   *repository.GormOrderEventRepository
	checkout    *CheckoutService
	orders      *OrderService
	carts       *CartService
}

var serviceTestSeq int64

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&serviceTestSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	env := &serviceTestEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		vendorRepo:  repository.NewVendorRepository(db),
		productRepo: repository.NewProductRepository(db),
		cartRepo:    repository.NewCartRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		ledgerRepo:  repository.NewLedgerRepository(db),
		eventRepo:   repository.NewOrderEventRepository(db),
	}
	env.checkout = NewCheckoutService(env.orderRepo, env.cartRepo, env.productRepo, env.vendorRepo, env.ledgerRepo, env.eventRepo, nil, CheckoutOptions{})
	env.orders = NewOrderService(env.orderRepo, env.productRepo, env.vendorRepo, env.ledgerRepo, env.eventRepo, nil)
	env.carts = NewCartService(env.cartRepo, env.productRepo, env.vendorRepo)
	return env
}

func (e *serviceTestEnv) seedUser(t *testing.T, role string) *models.User {
	t.Helper()
	seq := atomic.AddInt64(&serviceTestSeq, 1)
	user := &models.User{
		Name:   fmt.Sprintf("user-%d", seq),
		Email:  fmt.Sprintf("user-%d@example.com", seq),
		Role:   role,
		Status: constants.UserStatusActive,
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *serviceTestEnv) seedVendor(t *testing.T, storeName string, rate int64) (*models.User, *models.Vendor) {
	t.Helper()
	owner := e.seedUser(t, constants.RoleVendor)
	vendor := &models.Vendor{
		UserID:         owner.ID,
		StoreName:      storeName,
		CommissionRate: decimal.NewFromInt(rate),
		Currency:       constants.CurrencyINR,
		ApprovalStatus: constants.VendorApprovalApproved,
		IsActive:       true,
		TotalSales:     models.ZeroMoney(),
		TotalEarnings:  models.ZeroMoney(),
	}
	if err := e.vendorRepo.Create(vendor); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return owner, vendor
}

func (e *serviceTestEnv) seedProduct(t *testing.T, vendorID uint, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID: vendorID,
		Name:     name,
		Price:    models.NewMoneyFromInt(price),
		Currency: constants.CurrencyINR,
		Stock:    stock,
		Status:   constants.ProductStatusActive,
	}
	if err := e.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *serviceTestEnv) addToCart(t *testing.T, userID, productID uint, quantity int) {
	t.Helper()
	if _, err := e.carts.Add(t.Context(), userID, productID, quantity); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
}

func (e *serviceTestEnv) reloadProduct(t *testing.T, id uint) *models.Product {
	t.Helper()
	product, err := e.productRepo.GetByID(id)
	if err != nil || product == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return product
}

func (e *serviceTestEnv) reloadVendor(t *testing.T, id uint) *models.Vendor {
	t.Helper()
	vendor, err := e.vendorRepo.GetByID(id)
	if err != nil || vendor == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	return vendor
}

func (e *serviceTestEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}

func defaultAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:     "Asha Rao",
		Phone:        "+91-9000000000",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "KA",
		PostalCode:   "560001",
		Country:      "IN",
	}
}

func money(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}
