package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/models"
	"pos-fbr-backend/services"
)

func TestCreateSale_PersistsFullAggregate(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	sale, err := services.CreateSale(db, saleInput(branch, device, product))
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", sale.InvoiceNo)
	assert.Equal(t, models.FBRStatusPending, sale.FBRStatus)
	assert.Equal(t, 0, sale.SyncAttempts)
	assert.Len(t, sale.Items, 2)
	assert.Len(t, sale.Payments, 1)

	// USIN was left blank, so one must have been generated.
	assert.NotEmpty(t, sale.USIN)

	// Items default hs_code from the product when the line omits it.
	assert.Equal(t, "0902.10", sale.Items[0].HSCode)
	require.NotNil(t, sale.Items[0].Product)
	assert.Equal(t, "SKU-100", sale.Items[0].Product.Code)

	// Amounts survive the round trip at cent precision.
	assert.Equal(t, "1529.50", sale.TotalAmount.StringFixed(2))
	assert.Equal(t, "476.50", sale.Items[1].LineTotal.StringFixed(2))

	var itemCount, paymentCount int64
	require.NoError(t, db.Model(&models.SaleItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.EqualValues(t, 2, itemCount)
	assert.EqualValues(t, 1, paymentCount)
}

func TestCreateSale_RejectsEmptyItems(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	in := saleInput(branch, device, product)
	in.Items = nil

	_, err := services.CreateSale(db, in)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateSale_RejectsInconsistentTotal(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	in := saleInput(branch, device, product)
	in.TotalAmount = decimal.RequireFromString("9999.99")

	_, err := services.CreateSale(db, in)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateSale_DuplicateInvoiceNoConflicts(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	_, err := services.CreateSale(db, saleInput(branch, device, product))
	require.NoError(t, err)

	dup := saleInput(branch, device, product)
	dup.USIN = "USIN-other"
	_, err = services.CreateSale(db, dup)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateSale_DuplicateUSINConflicts(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	first := saleInput(branch, device, product)
	first.USIN = "USIN-fixed"
	_, err := services.CreateSale(db, first)
	require.NoError(t, err)

	second := saleInput(branch, device, product)
	second.InvoiceNo = "INV-0002"
	second.USIN = "USIN-fixed"
	_, err = services.CreateSale(db, second)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateSale_MissingReferencesRollBack(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	cases := []struct {
		name   string
		mutate func(*services.CreateSaleInput)
	}{
		{"branch", func(in *services.CreateSaleInput) { in.BranchID = 999 }},
		{"device", func(in *services.CreateSaleInput) { in.DeviceID = 999 }},
		{"customer", func(in *services.CreateSaleInput) { id := uint(999); in.CustomerID = &id }},
		{"product", func(in *services.CreateSaleInput) { in.Items[0].ProductID = 999 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := saleInput(branch, device, product)
			tc.mutate(in)

			_, err := services.CreateSale(db, in)
			assert.ErrorIs(t, err, apperrors.ErrNotFound)

			// Nothing of the aggregate may have been persisted.
			var sales, items, payments int64
			require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
			require.NoError(t, db.Model(&models.SaleItem{}).Count(&items).Error)
			require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
			assert.Zero(t, sales)
			assert.Zero(t, items)
			assert.Zero(t, payments)
		})
	}
}

func TestGetSale_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := services.GetSale(db, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, errors.Is(err, apperrors.ErrConflict))
}

func TestListSales_FiltersAndCounts(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	first := saleInput(branch, device, product)
	_, err := services.CreateSale(db, first)
	require.NoError(t, err)

	second := saleInput(branch, device, product)
	second.InvoiceNo = "INV-0002"
	second.Items = second.Items[:1]
	second.TotalSalesValue = decimal.RequireFromString("900.00")
	second.TotalTax = decimal.RequireFromString("153.00")
	second.TotalDiscount = decimal.Zero
	second.TotalAmount = decimal.RequireFromString("1053.00")
	_, err = services.CreateSale(db, second)
	require.NoError(t, err)

	all, err := services.ListSales(db, services.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	byInvoice := map[string]int64{}
	for _, s := range all {
		byInvoice[s.InvoiceNo] = s.ItemCount
	}
	assert.EqualValues(t, 2, byInvoice["INV-0001"])
	assert.EqualValues(t, 1, byInvoice["INV-0002"])

	pending, err := services.ListSales(db, services.SaleFilter{FBRStatus: models.FBRStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	none, err := services.ListSales(db, services.SaleFilter{FBRStatus: models.FBRStatusSuccess})
	require.NoError(t, err)
	assert.Empty(t, none)

	otherBranch := uint(branch.ID + 100)
	empty, err := services.ListSales(db, services.SaleFilter{BranchID: &otherBranch})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStatsSince_SumsRevenueAndTax(t *testing.T) {
	db := openTestDB(t)
	branch, device, product := seedSaleDeps(t, db)

	_, err := services.CreateSale(db, saleInput(branch, device, product))
	require.NoError(t, err)

	second := saleInput(branch, device, product)
	second.InvoiceNo = "INV-0002"
	_, err = services.CreateSale(db, second)
	require.NoError(t, err)

	cutoff := time.Now().UTC().Add(-time.Hour)
	stats, err := services.StatsSince(db, cutoff, "today")
	require.NoError(t, err)

	assert.Equal(t, "today", stats.Period)
	assert.Equal(t, 2, stats.TotalSales)
	assert.Equal(t, "3059.00", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, "459.00", stats.TotalTax.StringFixed(2))

	future, err := services.StatsSince(db, time.Now().UTC().Add(time.Hour), "empty")
	require.NoError(t, err)
	assert.Zero(t, future.TotalSales)
	assert.Equal(t, "0.00", future.TotalRevenue.StringFixed(2))
}
