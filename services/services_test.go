package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pos-fbr-backend/models"
	"pos-fbr-backend/services"
)

// openTestDB returns an isolated in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Branch{},
		&models.Device{},
		&models.Category{},
		&models.TaxRate{},
		&models.Product{},
		&models.Customer{},
		&models.User{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
		&models.InvoiceSyncLog{},
		&models.IdempotencyKey{},
	))
	return db
}

// seedSaleDeps inserts a branch, device and product and returns them.
func seedSaleDeps(t *testing.T, db *gorm.DB) (models.Branch, models.Device, models.Product) {
	t.Helper()
	branch := models.Branch{
		Name: "Main Branch", City: "Karachi", Province: "Sindh",
		NTN: "1234567", STRN: "7654321",
		FBRBranchCode: "BR-001", SaleTypeCode: "T1000017",
	}
	require.NoError(t, db.Create(&branch).Error)

	device := models.Device{
		BranchID: branch.ID, Name: "Till 1",
		DeviceIdentifier: "DEV-0001", FBRPosReg: "POS-9001",
	}
	require.NoError(t, db.Create(&device).Error)

	product := models.Product{
		Code: "SKU-100", Name: "Green Tea 500g",
		Price: decimal.RequireFromString("450.00"), HSCode: "0902.10",
	}
	require.NoError(t, db.Create(&product).Error)

	return branch, device, product
}

// saleInput returns a valid two-item sale against the seeded fixtures.
func saleInput(branch models.Branch, device models.Device, product models.Product) *services.CreateSaleInput {
	return &services.CreateSaleInput{
		InvoiceNo:    "INV-0001",
		BranchID:     branch.ID,
		DeviceID:     device.ID,
		InvoiceType:  models.InvoiceTypeSale,
		SaleTypeCode: branch.SaleTypeCode,
		SellerNTN:    branch.NTN,
		SellerSTRN:   branch.STRN,

		TotalQty:        decimal.RequireFromString("3"),
		TotalSalesValue: decimal.RequireFromString("1350.00"),
		TotalTax:        decimal.RequireFromString("229.50"),
		TotalDiscount:   decimal.RequireFromString("50.00"),
		TotalAmount:     decimal.RequireFromString("1529.50"),

		Items: []services.SaleItemInput{
			{
				ProductID:    product.ID,
				Quantity:     decimal.RequireFromString("2"),
				UnitPrice:    decimal.RequireFromString("450.00"),
				ValueExclTax: decimal.RequireFromString("900.00"),
				SalesTax:     decimal.RequireFromString("153.00"),
				LineTotal:    decimal.RequireFromString("1053.00"),
			},
			{
				ProductID:    product.ID,
				Quantity:     decimal.RequireFromString("1"),
				UnitPrice:    decimal.RequireFromString("450.00"),
				ValueExclTax: decimal.RequireFromString("450.00"),
				SalesTax:     decimal.RequireFromString("76.50"),
				Discount:     decimal.RequireFromString("50.00"),
				LineTotal:    decimal.RequireFromString("476.50"),
			},
		},
		Payments: []services.PaymentInput{
			{Method: "CASH", Amount: decimal.RequireFromString("1529.50")},
		},
	}
}
