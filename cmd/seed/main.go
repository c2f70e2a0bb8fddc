package main

import (
	"fmt"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/provider"

	"github.com/shopspring/decimal"
)

type seedVendor struct {
	email      string
	name       string
	storeName  string
	commission int64
	products   []seedProduct
}

type seedProduct struct {
	name  string
	price int64
	stock int
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container := provider.NewContainerWithDB(cfg, models.DB, nil, nil)

	vendors := []seedVendor{
		{
			email:      "indigo@souq.local",
			name:       "Meera Iyer",
			storeName:  "Indigo Looms",
			commission: 12,
			products: []seedProduct{
				{name: "Handloom Kurta", price: 1200, stock: 40},
				{name: "Block Print Dupatta", price: 650, stock: 25},
			},
		},
		{
			email:      "spice@souq.local",
			name:       "Farid Khan",
			storeName:  "Spice Route",
			commission: 15,
			products: []seedProduct{
				{name: "Garam Masala 200g", price: 150, stock: 200},
				{name: "Kashmiri Saffron 1g", price: 480, stock: 30},
			},
		},
	}

	tokens := map[string]string{}
	issue := func(user *models.User) {
		token, _, err := container.TokenService.Issue(user)
		if err != nil {
			stdLog.Printf("Failed to issue token for %s: %v", user.Email, err)
			return
		}
		tokens[user.Email] = token
	}

	for _, sv := range vendors {
		owner, err := ensureUser(container, sv.email, sv.name, constants.RoleVendor)
		if err != nil {
			stdLog.Fatalf("Failed to seed vendor user %s: %v", sv.email, err)
		}
		issue(owner)

		vendor, err := container.VendorRepo.GetByUserID(owner.ID)
		if err != nil {
			stdLog.Fatalf("Failed to load vendor %s: %v", sv.storeName, err)
		}
		if vendor == nil {
			vendor = &models.Vendor{
				UserID:         owner.ID,
				StoreName:      sv.storeName,
				CommissionRate: decimal.NewFromInt(sv.commission),
				Currency:       constants.CurrencyINR,
				ApprovalStatus: constants.VendorApprovalApproved,
				IsActive:       true,
				TotalSales:     models.ZeroMoney(),
				TotalEarnings:  models.ZeroMoney(),
			}
			if err := container.VendorRepo.Create(vendor); err != nil {
				stdLog.Fatalf("Failed to create vendor %s: %v", sv.storeName, err)
			}
			stdLog.Printf("Created vendor: %s", sv.storeName)
		} else {
			stdLog.Printf("Vendor already exists: %s", sv.storeName)
		}

		for _, p := range sv.products {
			var count int64
			if err := models.DB.Model(&models.Product{}).Where("vendor_id = ? AND name = ?", vendor.ID, p.name).Count(&count).Error; err != nil {
				stdLog.Printf("Failed to check product %s: %v", p.name, err)
				continue
			}
			if count > 0 {
				stdLog.Printf("Product already exists: %s", p.name)
				continue
			}
			product := &models.Product{
				VendorID: vendor.ID,
				Name:     p.name,
				Price:    models.NewMoneyFromInt(p.price),
				Currency: constants.CurrencyINR,
				Stock:    p.stock,
				Status:   constants.ProductStatusActive,
			}
			if err := container.ProductRepo.Create(product); err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.name, err)
				continue
			}
			stdLog.Printf("Created product: %s (id=%d)", p.name, product.ID)
		}
	}

	customer, err := ensureUser(container, "customer@souq.local", "Asha Rao", constants.RoleCustomer)
	if err != nil {
		stdLog.Fatalf("Failed to seed customer: %v", err)
	}
	issue(customer)

	admin, err := ensureUser(container, "admin@souq.local", "Platform Admin", constants.RoleSuperAdmin)
	if err != nil {
		stdLog.Fatalf("Failed to seed admin: %v", err)
	}
	issue(admin)

	fmt.Println("Seed completed. Bearer tokens:")
	for email, token := range tokens {
		fmt.Printf("  %-24s %s\n", email, token)
	}
}

func ensureUser(container *provider.Container, email, name, role string) (*models.User, error) {
	user, err := container.UserRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	user = &models.User{
		Name:   name,
		Email:  email,
		Role:   role,
		Status: constants.UserStatusActive,
	}
	if err := container.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
