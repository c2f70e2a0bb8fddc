package service

import (
	"context"
	"testing"

	"github.com/souq-next/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorReconcileTracksLedger(t *testing.T) {
	f := placeSingleOrder(t)
	env := f.env
	reconcile := NewVendorReconcileService(env.vendorRepo, env.ledgerRepo)

	result, err := reconcile.Reconcile(context.Background(), f.vendor.ID)
	require.NoError(t, err)
	assert.True(t, result.Balanced)
	assert.Equal(t, "200.00", result.LedgerSales.String())
	assert.Equal(t, int64(1), result.LedgerOrders)
	assert.Equal(t, "180.00", result.LedgerEarnings.String())

	_, err = env.orders.Cancel(context.Background(), f.order.ID, f.customerPrincipal(), "")
	require.NoError(t, err)
	result, err = reconcile.Reconcile(context.Background(), f.vendor.ID)
	require.NoError(t, err)
	assert.True(t, result.Balanced)
	assert.True(t, result.LedgerSales.IsZero())
	assert.Equal(t, int64(0), result.LedgerOrders)

	require.NoError(t, env.db.Model(&models.Vendor{}).Where("id = ?", f.vendor.ID).Update("total_orders", 3).Error)
	result, err = reconcile.Reconcile(context.Background(), f.vendor.ID)
	require.NoError(t, err)
	assert.False(t, result.Balanced)
	assert.Equal(t, int64(3), result.TotalOrders)
}

func TestVendorReconcileMissingVendor(t *testing.T) {
	env := setupServiceTest(t)
	_, err := NewVendorReconcileService(env.vendorRepo, env.ledgerRepo).Reconcile(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrVendorNotFound)
}
