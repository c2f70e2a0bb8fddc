package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderSplitsCartByVendor(t *testing.T) {
	env := setupServiceTest(t)
	_, vendorA := env.seedVendor(t, "Loom House", 10)
	_, vendorB := env.seedVendor(t, "Tea Garden", 20)
	shawl := env.seedProduct(t, vendorA.ID, "Shawl", 100, 5)
	tea := env.seedProduct(t, vendorB.ID, "Tea", 50, 5)
	customer := env.seedUser(t, constants.RoleCustomer)

	env.addToCart(t, customer.ID, tea.ID, 1)
	env.addToCart(t, customer.ID, shawl.ID, 2)

	orders, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:      customer.ID,
		ShippingAddress: defaultAddress(),
		CustomerNotes:   "leave at door",
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first, second := orders[0], orders[1]
	assert.Equal(t, vendorA.ID, first.VendorID, "groups are ordered by vendor id")
	assert.True(t, first.Total.Equal(money(200)))
	assert.True(t, second.Total.Equal(money(50)))
	assert.True(t, first.CommissionAmount.Equal(money(20)))
	assert.True(t, first.VendorEarnings.Equal(money(180)))
	assert.True(t, second.CommissionAmount.Equal(money(10)))
	assert.True(t, second.VendorEarnings.Equal(money(40)))
	for _, order := range orders {
		assert.Equal(t, constants.OrderStatusPending, order.Status)
		assert.Equal(t, constants.PaymentStatusPending, order.PaymentStatus)
		assert.Equal(t, constants.PaymentMethodCOD, order.PaymentMethod)
		assert.Equal(t, "leave at door", order.CustomerNotes)
		assert.True(t, order.CommissionAmount.Plus(order.VendorEarnings).Equal(order.Total))
		assert.True(t, order.ShippingFee.IsZero())
		assert.True(t, order.Tax.IsZero())
		assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
		sum := models.ZeroMoney()
		for _, item := range order.Items {
			sum = sum.Plus(item.LineTotal)
		}
		assert.True(t, sum.Equal(order.Subtotal))
	}

	cart, err := env.cartRepo.GetByUser(customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)

	assert.Equal(t, 3, env.reloadProduct(t, shawl.ID).Stock)
	assert.Equal(t, 2, env.reloadProduct(t, shawl.ID).SalesCount)
	assert.Equal(t, 4, env.reloadProduct(t, tea.ID).Stock)

	statsA := env.reloadVendor(t, vendorA.ID)
	assert.True(t, statsA.TotalSales.Equal(money(200)))
	assert.Equal(t, int64(1), statsA.TotalOrders)
	assert.True(t, statsA.TotalEarnings.Equal(money(180)))

	assert.Equal(t, int64(2), env.countRows(t, &models.VendorLedgerEntry{}))
	assert.Equal(t, int64(2), env.countRows(t, &models.OrderEvent{}))
}

func TestPlaceOrderTotalsMatchCartValue(t *testing.T) {
	env := setupServiceTest(t)
	_, vendorA := env.seedVendor(t, "A", 15)
	_, vendorB := env.seedVendor(t, "B", 12)
	p1 := env.seedProduct(t, vendorA.ID, "P1", 33, 10)
	p2 := env.seedProduct(t, vendorA.ID, "P2", 17, 10)
	p3 := env.seedProduct(t, vendorB.ID, "P3", 99, 10)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, p1.ID, 3)
	env.addToCart(t, customer.ID, p2.ID, 1)
	env.addToCart(t, customer.ID, p3.ID, 2)

	orders, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.NoError(t, err)

	total := models.ZeroMoney()
	for _, order := range orders {
		total = total.Plus(order.Total)
	}
	assert.True(t, total.Equal(money(33*3+17+99*2)))
}

func TestPlaceOrderUsesCurrentCatalogPrice(t *testing.T) {
	env := setupServiceTest(t)
	_, vendor := env.seedVendor(t, "Spice", 10)
	product := env.seedProduct(t, vendor.ID, "Saffron", 80, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, product.ID, 2)

	require.NoError(t, env.db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", money(100)).Error)

	orders, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Total.Equal(money(200)))
	assert.True(t, orders[0].Items[0].UnitPrice.Equal(money(100)))
}

func TestPlaceOrderIsAllOrNothing(t *testing.T) {
	env := setupServiceTest(t)
	_, vendorA := env.seedVendor(t, "A", 10)
	_, vendorB := env.seedVendor(t, "B", 10)
	good := env.seedProduct(t, vendorA.ID, "Good", 100, 5)
	scarce := env.seedProduct(t, vendorB.ID, "Scarce", 50, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, good.ID, 2)
	env.addToCart(t, customer.ID, scarce.ID, 3)

	require.NoError(t, env.db.Model(&models.Product{}).Where("id = ?", scarce.ID).Update("stock", 1).Error)

	_, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, `Insufficient stock for "Scarce". Only 1 available`, err.Error())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, int64(0), env.countRows(t, &models.Order{}))
	assert.Equal(t, int64(0), env.countRows(t, &models.VendorLedgerEntry{}))
	assert.Equal(t, 5, env.reloadProduct(t, good.ID).Stock)
	assert.True(t, env.reloadVendor(t, vendorA.ID).TotalSales.IsZero())

	cart, err := env.cartRepo.GetByUser(customer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestPlaceOrderRejectsUnavailableProduct(t *testing.T) {
	env := setupServiceTest(t)
	_, vendor := env.seedVendor(t, "A", 10)
	product := env.seedProduct(t, vendor.ID, "Lamp", 100, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, product.ID, 1)

	require.NoError(t, env.db.Model(&models.Product{}).Where("id = ?", product.ID).Update("status", constants.ProductStatusDiscontinued).Error)

	_, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.ErrorIs(t, err, ErrProductUnavailable)
	assert.Equal(t, `Product "Lamp" is no longer available`, err.Error())
}

func TestPlaceOrderRejectsSuspendedVendor(t *testing.T) {
	env := setupServiceTest(t)
	_, vendor := env.seedVendor(t, "A", 10)
	product := env.seedProduct(t, vendor.ID, "Rug", 100, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, product.ID, 1)

	require.NoError(t, env.db.Model(&models.Vendor{}).Where("id = ?", vendor.ID).Update("approval_status", constants.VendorApprovalSuspended).Error)

	_, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.ErrorIs(t, err, ErrProductUnavailable)
	assert.Equal(t, 5, env.reloadProduct(t, product.ID).Stock)
}

func TestPlaceOrderDefaultsCommissionWhenVendorMissing(t *testing.T) {
	env := setupServiceTest(t)
	product := env.seedProduct(t, 999, "Orphan", 100, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, product.ID, 1)

	orders, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].CommissionRate.Equal(decimal.NewFromInt(15)))
	assert.True(t, orders[0].CommissionAmount.Equal(money(15)))
	assert.True(t, orders[0].VendorEarnings.Equal(money(85)))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.seedUser(t, constants.RoleCustomer)

	_, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	assert.ErrorIs(t, err, ErrCartEmpty)

	_, err = env.carts.Get(context.Background(), customer.ID)
	require.NoError(t, err)
	_, err = env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestPlaceOrderValidatesInput(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.seedUser(t, constants.RoleCustomer)

	_, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: models.ShippingAddress{FullName: "Only Name"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress(), PaymentMethod: "BARTER"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlaceOrderConcurrentCheckoutsShareStock(t *testing.T) {
	env := setupServiceTest(t)
	_, vendor := env.seedVendor(t, "A", 10)
	product := env.seedProduct(t, vendor.ID, "Last Few", 10, 3)
	buyers := []*models.User{env.seedUser(t, constants.RoleCustomer), env.seedUser(t, constants.RoleCustomer)}
	for _, buyer := range buyers {
		env.addToCart(t, buyer.ID, product.ID, 2)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(buyers))
	for i, buyer := range buyers {
		wg.Add(1)
		go func(i int, customerID uint) {
			defer wg.Done()
			_, errs[i] = env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customerID, ShippingAddress: defaultAddress()})
		}(i, buyer.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrInsufficientStock), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, env.reloadProduct(t, product.ID).Stock)
	assert.Equal(t, int64(1), env.countRows(t, &models.Order{}))
}

func TestPlaceOrderRetriesOrderNumberCollision(t *testing.T) {
	env := setupServiceTest(t)
	_, vendor := env.seedVendor(t, "A", 10)
	product := env.seedProduct(t, vendor.ID, "Bowl", 40, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, product.ID, 1)

	existing := &models.Order{
		OrderNumber:   "ORD-20260101-11111",
		CustomerID:    customer.ID,
		VendorID:      vendor.ID,
		Currency:      constants.CurrencyINR,
		PaymentMethod: constants.PaymentMethodCOD,
		PaymentStatus: constants.PaymentStatusPending,
		Status:        constants.OrderStatusCancelled,
	}
	require.NoError(t, env.orderRepo.Create(existing, nil))

	numbers := []string{"ORD-20260101-11111", "ORD-20260101-22222"}
	calls := 0
	env.checkout.orderNumber = func(time.Time) string {
		n := numbers[calls%len(numbers)]
		calls++
		return n
	}

	orders, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-20260101-22222", orders[0].OrderNumber)
	assert.Equal(t, 2, calls)
}

func TestPlaceOrderFailsWhenOrderNumbersExhausted(t *testing.T) {
	env := setupServiceTest(t)
	_, vendor := env.seedVendor(t, "A", 10)
	product := env.seedProduct(t, vendor.ID, "Bowl", 40, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, product.ID, 1)
	require.NoError(t, env.orderRepo.Create(&models.Order{
		OrderNumber:   "ORD-TAKEN",
		CustomerID:    customer.ID,
		VendorID:      vendor.ID,
		Currency:      constants.CurrencyINR,
		PaymentMethod: constants.PaymentMethodCOD,
		PaymentStatus: constants.PaymentStatusPending,
		Status:        constants.OrderStatusCancelled,
	}, nil))
	env.checkout.orderNumber = func(time.Time) string { return "ORD-TAKEN" }

	_, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.ErrorIs(t, err, ErrOrderNumberExhaust)
	assert.Equal(t, 5, env.reloadProduct(t, product.ID).Stock)
}

func TestPlaceOrderRollsBackEarlierVendorGroupOnLaterFailure(t *testing.T) {
	env := setupServiceTest(t)
	_, vendorA := env.seedVendor(t, "A", 10)
	_, vendorB := env.seedVendor(t, "B", 10)
	bowl := env.seedProduct(t, vendorA.ID, "Bowl", 40, 5)
	cup := env.seedProduct(t, vendorB.ID, "Cup", 20, 5)
	customer := env.seedUser(t, constants.RoleCustomer)
	env.addToCart(t, customer.ID, bowl.ID, 2)
	env.addToCart(t, customer.ID, cup.ID, 1)
	require.NoError(t, env.orderRepo.Create(&models.Order{
		OrderNumber:   "ORD-TAKEN",
		CustomerID:    customer.ID,
		VendorID:      vendorB.ID,
		Currency:      constants.CurrencyINR,
		PaymentMethod: constants.PaymentMethodCOD,
		PaymentStatus: constants.PaymentStatusPending,
		Status:        constants.OrderStatusCancelled,
	}, nil))

	// 第一个商家组拿到可用单号并完成写入，第二组单号始终冲突
	calls := 0
	env.checkout.orderNumber = func(time.Time) string {
		calls++
		if calls == 1 {
			return "ORD-FIRST"
		}
		return "ORD-TAKEN"
	}

	_, err := env.checkout.PlaceOrder(context.Background(), PlaceOrderInput{CustomerID: customer.ID, ShippingAddress: defaultAddress()})
	require.ErrorIs(t, err, ErrOrderNumberExhaust)
	assert.Equal(t, 1+constants.DefaultOrderNumberAttempts, calls)

	assert.Equal(t, int64(1), env.countRows(t, &models.Order{}), "only the pre-existing order remains")
	assert.Equal(t, int64(0), env.countRows(t, &models.OrderItem{}))
	assert.Equal(t, int64(0), env.countRows(t, &models.VendorLedgerEntry{}))
	assert.Equal(t, int64(0), env.countRows(t, &models.OrderEvent{}))

	reloadedBowl := env.reloadProduct(t, bowl.ID)
	assert.Equal(t, 5, reloadedBowl.Stock)
	assert.Equal(t, 0, reloadedBowl.SalesCount)
	assert.Equal(t, 5, env.reloadProduct(t, cup.ID).Stock)

	reloadedVendor := env.reloadVendor(t, vendorA.ID)
	assert.True(t, reloadedVendor.TotalSales.IsZero())
	assert.Equal(t, int64(0), reloadedVendor.TotalOrders)
	assert.True(t, reloadedVendor.TotalEarnings.IsZero())

	cart, err := env.cartRepo.GetByUser(customer.ID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Len(t, cart.Items, 2)
}

func TestSplitCommissionRounding(t *testing.T) {
	total := models.NewMoneyFromDecimal(decimal.RequireFromString("33.33"))
	commission, earnings := splitCommission(total, decimal.NewFromInt(15))
	assert.Equal(t, "5.00", commission.String())
	assert.Equal(t, "28.33", earnings.String())
	assert.True(t, commission.Plus(earnings).Equal(total))

	commission, earnings = splitCommission(money(250), decimal.RequireFromString("12.5"))
	assert.Equal(t, "31.25", commission.String())
	assert.Equal(t, "218.75", earnings.String())
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	number := generateOrderNumber(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))
	require.Len(t, number, len("ORD-20260309-12345"))
	assert.True(t, strings.HasPrefix(number, "ORD-20260309-"))

	ist := time.FixedZone("IST", 5*3600+1800)
	number = generateOrderNumber(time.Date(2026, 3, 10, 1, 0, 0, 0, ist))
	assert.True(t, strings.HasPrefix(number, "ORD-20260310-"), "date must follow the clock used for created_at, got %s", number)
}
