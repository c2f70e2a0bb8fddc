package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var routerTestSeq int64

type routerTestEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	container *provider.Container
	engine    *gin.Engine
}

func newRouterTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		JWT:    config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Order: config.OrderConfig{
			DefaultCommissionRate: constants.DefaultCommissionRate,
			OrderNumberAttempts:   constants.DefaultOrderNumberAttempts,
		},
	}
}

func setupRouterTest(t *testing.T, cfg *config.Config) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.L = zap.NewNop()
	if cfg == nil {
		cfg = newRouterTestConfig()
	}

	dsn := fmt.Sprintf("file:router_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&routerTestSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	container := provider.NewContainerWithDB(cfg, db, nil, nil)
	return &routerTestEnv{
		db:        db,
		cfg:       cfg,
		container: container,
		engine:    SetupRouter(cfg, container),
	}
}

func (e *routerTestEnv) seedUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	seq := atomic.AddInt64(&routerTestSeq, 1)
	user := &models.User{
		Name:   fmt.Sprintf("router-user-%d", seq),
		Email:  fmt.Sprintf("router-user-%d@example.com", seq),
		Role:   role,
		Status: constants.UserStatusActive,
	}
	if err := e.container.UserRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, _, err := e.container.TokenService.Issue(user)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	return user, token
}

func (e *routerTestEnv) seedVendor(t *testing.T, storeName string) (*models.Vendor, string) {
	t.Helper()
	owner, token := e.seedUser(t, constants.RoleVendor)
	vendor := &models.Vendor{
		UserID:         owner.ID,
		StoreName:      storeName,
		CommissionRate: decimal.NewFromInt(10),
		Currency:       constants.CurrencyINR,
		ApprovalStatus: constants.VendorApprovalApproved,
		IsActive:       true,
		TotalSales:     models.ZeroMoney(),
		TotalEarnings:  models.ZeroMoney(),
	}
	if err := e.container.VendorRepo.Create(vendor); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor, token
}

func (e *routerTestEnv) seedProduct(t *testing.T, vendorID uint, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID: vendorID,
		Name:     name,
		Price:    models.NewMoneyFromInt(price),
		Currency: constants.CurrencyINR,
		Stock:    stock,
		Status:   constants.ProductStatusActive,
	}
	if err := e.container.ProductRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *routerTestEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
		}
	}
	return w, decoded
}

func defaultShippingBody() map[string]interface{} {
	return map[string]interface{}{
		"shippingAddress": map[string]interface{}{
			"fullName":     "Asha Rao",
			"phone":        "+91-9000000000",
			"addressLine1": "12 MG Road",
			"city":         "Bengaluru",
			"postalCode":   "560001",
			"country":      "IN",
		},
		"paymentMethod": constants.PaymentMethodCOD,
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status want %d got %d body=%s", want, w.Code, w.Body.String())
	}
}
