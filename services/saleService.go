// Package services holds the two pieces of this backend that are more than
// CRUD plumbing: the transactional sale-aggregate builder and the FBR sync
// tracker.
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/models"
)

// SaleItemInput is one line-item descriptor supplied by the POS terminal.
// All amounts are authoritative client figures; the server validates
// referential existence, never line arithmetic.
type SaleItemInput struct {
	ProductID       uint            `json:"product_id" validate:"required"`
	HSCode          string          `json:"hs_code" validate:"omitempty,max=20"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ValueExclTax    decimal.Decimal `json:"value_excl_tax"`
	SalesTax        decimal.Decimal `json:"sales_tax"`
	FurtherTax      decimal.Decimal `json:"further_tax"`
	CVT             decimal.Decimal `json:"c_v_t"`
	WHTax1          decimal.Decimal `json:"w_h_tax_1"`
	WHTax2          decimal.Decimal `json:"w_h_tax_2"`
	Discount        decimal.Decimal `json:"discount"`
	SROItemSerialNo string          `json:"sro_item_serial_no" validate:"omitempty,max=10"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// PaymentInput is one tender descriptor.
type PaymentInput struct {
	Method  string          `json:"method" validate:"required,max=30"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	Details datatypes.JSON  `json:"details"`
}

// CreateSaleInput is the sale header descriptor plus its items and payments.
type CreateSaleInput struct {
	InvoiceNo    string             `json:"invoice_no" validate:"required,max=30"`
	BranchID     uint               `json:"branch_id" validate:"required"`
	DeviceID     uint               `json:"device_id" validate:"required"`
	CustomerID   *uint              `json:"customer_id"`
	InvoiceDate  *time.Time         `json:"invoice_date"`
	InvoiceType  models.InvoiceType `json:"invoice_type" validate:"required,oneof=PURCHASE SALE DEBIT_NOTE CREDIT_NOTE"`
	SaleTypeCode string             `json:"sale_type_code" validate:"required,max=20"`
	SellerNTN    string             `json:"seller_ntn" validate:"required,len=7"`
	SellerSTRN   string             `json:"seller_strn" validate:"required,len=7"`
	BuyerNTN     string             `json:"buyer_ntn" validate:"omitempty,max=9"`
	BuyerName    string             `json:"buyer_name" validate:"omitempty,max=150"`

	TotalQty        decimal.Decimal `json:"total_qty"`
	TotalSalesValue decimal.Decimal `json:"total_sales_value"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	TotalDiscount   decimal.Decimal `json:"total_discount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`

	// USIN may be left blank; a unique one is generated server-side.
	USIN string `json:"usin" validate:"omitempty,max=50"`

	Items    []SaleItemInput `json:"items" validate:"required,min=1,dive"`
	Payments []PaymentInput  `json:"payments" validate:"dive"`
}

// CreateSale atomically persists a sale header with its items and payments.
//
// Preconditions are checked in a fixed order, each failing with a distinct
// error: branch, device, customer (if given), invoice_no uniqueness, usin
// uniqueness, then product existence per item. The pre-checks are best-effort
// only; the unique indexes on sales.invoice_no and sales.usin are the real
// guard, and their violations surface as Conflict. Either every row of the
// aggregate commits or none do.
func CreateSale(db *gorm.DB, in *CreateSaleInput) (*models.Sale, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.Validationf("sale requires at least one item")
	}

	// Header identity: total_amount = total_sales_value + total_tax - total_discount.
	// Line-level tax arithmetic is accepted as supplied.
	want := in.TotalSalesValue.Add(in.TotalTax).Sub(in.TotalDiscount)
	if !in.TotalAmount.Equal(want) {
		return nil, apperrors.Validationf(
			"total_amount %s does not equal total_sales_value + total_tax - total_discount (%s)",
			in.TotalAmount.StringFixed(2), want.StringFixed(2))
	}

	usin := strings.TrimSpace(in.USIN)
	if usin == "" {
		usin = "USIN-" + uuid.NewString()
	}

	now := time.Now().UTC()
	invoiceDate := now
	if in.InvoiceDate != nil {
		invoiceDate = *in.InvoiceDate
	}

	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var branch models.Branch
		if err := tx.First(&branch, in.BranchID).Error; err != nil {
			return apperrors.NotFoundf("branch %d", in.BranchID)
		}
		var device models.Device
		if err := tx.First(&device, in.DeviceID).Error; err != nil {
			return apperrors.NotFoundf("device %d", in.DeviceID)
		}
		if in.CustomerID != nil {
			var customer models.Customer
			if err := tx.First(&customer, *in.CustomerID).Error; err != nil {
				return apperrors.NotFoundf("customer %d", *in.CustomerID)
			}
		}

		var count int64
		if err := tx.Model(&models.Sale{}).Where("invoice_no = ?", in.InvoiceNo).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflictf("invoice_no %q already exists", in.InvoiceNo)
		}
		if err := tx.Model(&models.Sale{}).Where("usin = ?", usin).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflictf("usin %q already exists", usin)
		}

		items := make([]models.SaleItem, 0, len(in.Items))
		for _, it := range in.Items {
			var product models.Product
			if err := tx.First(&product, it.ProductID).Error; err != nil {
				return apperrors.NotFoundf("product %d", it.ProductID)
			}
			hsCode := it.HSCode
			if hsCode == "" {
				hsCode = product.HSCode
			}
			items = append(items, models.SaleItem{
				ProductID:       it.ProductID,
				HSCode:          hsCode,
				Quantity:        it.Quantity,
				UnitPrice:       it.UnitPrice,
				ValueExclTax:    it.ValueExclTax,
				SalesTax:        it.SalesTax,
				FurtherTax:      it.FurtherTax,
				CVT:             it.CVT,
				WHTax1:          it.WHTax1,
				WHTax2:          it.WHTax2,
				Discount:        it.Discount,
				SROItemSerialNo: it.SROItemSerialNo,
				LineTotal:       it.LineTotal,
			})
		}

		payments := make([]models.Payment, 0, len(in.Payments))
		for _, p := range in.Payments {
			payments = append(payments, models.Payment{
				Method:      p.Method,
				Amount:      p.Amount,
				PaymentDate: now,
				Details:     p.Details,
			})
		}

		sale = models.Sale{
			InvoiceNo:       in.InvoiceNo,
			BranchID:        in.BranchID,
			DeviceID:        in.DeviceID,
			CustomerID:      in.CustomerID,
			InvoiceDate:     invoiceDate,
			InvoiceType:     in.InvoiceType,
			SaleTypeCode:    in.SaleTypeCode,
			SellerNTN:       in.SellerNTN,
			SellerSTRN:      in.SellerSTRN,
			BuyerNTN:        in.BuyerNTN,
			BuyerName:       in.BuyerName,
			TotalQty:        in.TotalQty,
			TotalSalesValue: in.TotalSalesValue,
			TotalTax:        in.TotalTax,
			TotalDiscount:   in.TotalDiscount,
			TotalAmount:     in.TotalAmount,
			USIN:            usin,
			FBRStatus:       models.FBRStatusPending,
			Items:           items,
			Payments:        payments,
		}

		// Header + items + payments in one insert; the unique indexes decide
		// races the pre-checks could not see.
		if err := tx.Create(&sale).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetSale(db, sale.ID)
}

// GetSale returns the fully hydrated sale aggregate.
func GetSale(db *gorm.DB, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := db.
		Preload("Branch").
		Preload("Device").
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		Preload("Payments").
		First(&sale, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFoundf("sale %d", id)
		}
		return nil, err
	}
	return &sale, nil
}

// SaleSummary is the list-view projection of a sale.
type SaleSummary struct {
	ID          uint             `json:"id"`
	InvoiceNo   string           `json:"invoice_no"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	FBRStatus   models.FBRStatus `json:"fbr_status"`
	CreatedAt   time.Time        `json:"created_at"`
	ItemCount   int64            `json:"item_count"`
}

// SaleFilter narrows ListSales.
type SaleFilter struct {
	Skip      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
	BranchID  *uint
	DeviceID  *uint
	FBRStatus models.FBRStatus
}

// ListSales returns sale summaries, newest first.
func ListSales(db *gorm.DB, f SaleFilter) ([]SaleSummary, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 100
	}
	q := db.Model(&models.Sale{})
	if f.StartDate != nil {
		q = q.Where("invoice_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("invoice_date <= ?", *f.EndDate)
	}
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.DeviceID != nil {
		q = q.Where("device_id = ?", *f.DeviceID)
	}
	if f.FBRStatus != "" {
		q = q.Where("fbr_status = ?", f.FBRStatus)
	}

	var sales []models.Sale
	if err := q.Order("created_at DESC").Offset(f.Skip).Limit(f.Limit).Find(&sales).Error; err != nil {
		return nil, err
	}

	out := make([]SaleSummary, 0, len(sales))
	for _, s := range sales {
		var itemCount int64
		if err := db.Model(&models.SaleItem{}).Where("sale_id = ?", s.ID).Count(&itemCount).Error; err != nil {
			return nil, err
		}
		out = append(out, SaleSummary{
			ID:          s.ID,
			InvoiceNo:   s.InvoiceNo,
			TotalAmount: s.TotalAmount,
			FBRStatus:   s.FBRStatus,
			CreatedAt:   s.CreatedAt,
			ItemCount:   itemCount,
		})
	}
	return out, nil
}

// SalesStats aggregates revenue and tax over a period.
type SalesStats struct {
	Period       string          `json:"period"`
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalTax     decimal.Decimal `json:"total_tax"`
}

// StatsSince sums sales with invoice_date on or after the cutoff.
func StatsSince(db *gorm.DB, cutoff time.Time, label string) (*SalesStats, error) {
	var sales []models.Sale
	if err := db.Where("invoice_date >= ?", cutoff).Find(&sales).Error; err != nil {
		return nil, err
	}
	stats := &SalesStats{
		Period:       label,
		TotalSales:   len(sales),
		TotalRevenue: decimal.Zero,
		TotalTax:     decimal.Zero,
	}
	for _, s := range sales {
		stats.TotalRevenue = stats.TotalRevenue.Add(s.TotalAmount)
		stats.TotalTax = stats.TotalTax.Add(s.TotalTax)
	}
	return stats, nil
}
