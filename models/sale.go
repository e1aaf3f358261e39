package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceType is the FBR document type of a sale.
type InvoiceType string

const (
	InvoiceTypePurchase   InvoiceType = "PURCHASE"
	InvoiceTypeSale       InvoiceType = "SALE"
	InvoiceTypeDebitNote  InvoiceType = "DEBIT_NOTE"
	InvoiceTypeCreditNote InvoiceType = "CREDIT_NOTE"
)

// Valid reports whether t is one of the known invoice types.
func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceTypePurchase, InvoiceTypeSale, InvoiceTypeDebitNote, InvoiceTypeCreditNote:
		return true
	}
	return false
}

// FBRStatus is the authority-sync state of a sale.
//
//	PENDING -> SENT -> SUCCESS (terminal)
//	                -> FAILED  (retryable: FAILED -> SENT)
type FBRStatus string

const (
	FBRStatusPending FBRStatus = "PENDING"
	FBRStatusSent    FBRStatus = "SENT"
	FBRStatusSuccess FBRStatus = "SUCCESS"
	FBRStatusFailed  FBRStatus = "FAILED"
)

// Valid reports whether s is one of the known sync states.
func (s FBRStatus) Valid() bool {
	switch s {
	case FBRStatusPending, FBRStatusSent, FBRStatusSuccess, FBRStatusFailed:
		return true
	}
	return false
}

// fbrTransitions is the allowed-transitions table. SUCCESS has no outgoing
// edges: a successfully reported invoice must never be re-sent.
var fbrTransitions = map[FBRStatus][]FBRStatus{
	FBRStatusPending: {FBRStatusSent},
	FBRStatusSent:    {FBRStatusSent, FBRStatusSuccess, FBRStatusFailed},
	FBRStatusFailed:  {FBRStatusSent},
	FBRStatusSuccess: {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s FBRStatus) CanTransition(next FBRStatus) bool {
	for _, allowed := range fbrTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Sale is the invoice header. It exclusively owns its Items and Payments
// (cascade delete); sync history lives in InvoiceSyncLog and survives header
// mutation.
type Sale struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	InvoiceNo  string    `json:"invoice_no" gorm:"size:30;uniqueIndex;not null"`
	BranchID   uint      `json:"branch_id" gorm:"not null"`
	Branch     *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	DeviceID   uint      `json:"device_id" gorm:"not null"`
	Device     *Device   `json:"device,omitempty" gorm:"foreignKey:DeviceID"`
	CustomerID *uint     `json:"customer_id"`
	Customer   *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`

	InvoiceDate  time.Time   `json:"invoice_date" gorm:"not null"`
	InvoiceType  InvoiceType `json:"invoice_type" gorm:"size:20;not null"`
	SaleTypeCode string      `json:"sale_type_code" gorm:"size:20;not null"`
	SellerNTN    string      `json:"seller_ntn" gorm:"size:7;not null"`
	SellerSTRN   string      `json:"seller_strn" gorm:"size:7;not null"`
	BuyerNTN     string      `json:"buyer_ntn" gorm:"size:9"`
	BuyerName    string      `json:"buyer_name" gorm:"size:150"`

	TotalQty        decimal.Decimal `json:"total_qty" gorm:"type:numeric(10,2);not null"`
	TotalSalesValue decimal.Decimal `json:"total_sales_value" gorm:"type:numeric(14,2);not null"`
	TotalTax        decimal.Decimal `json:"total_tax" gorm:"type:numeric(14,2);not null"`
	TotalDiscount   decimal.Decimal `json:"total_discount" gorm:"type:numeric(14,2);default:0"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(14,2);not null"`

	// USIN: application-generated unique sale invoice number.
	USIN string `json:"usin" gorm:"column:usin;size:50;uniqueIndex;not null"`

	// FBR sync bookkeeping.
	FBRInvoiceNo *string        `json:"fbr_invoice_no" gorm:"size:50;uniqueIndex"`
	QRPayload    string         `json:"qr_payload" gorm:"type:text"`
	FBRPayload   datatypes.JSON `json:"fbr_payload" gorm:"column:fbr_payload"`
	FBRResponse  datatypes.JSON `json:"fbr_response" gorm:"column:fbr_response"`
	FBRStatus    FBRStatus      `json:"fbr_status" gorm:"size:10;not null;default:PENDING"`
	SyncAttempts int            `json:"sync_attempts" gorm:"not null;default:0"`
	LastSyncedAt *time.Time     `json:"last_synced_at"`

	CreatedAt time.Time `json:"created_at"`

	Items    []SaleItem `json:"items" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments []Payment  `json:"payments" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one invoice line. Tax components are accepted as reported by
// the POS terminal; the server does not recompute them.
type SaleItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	SaleID          uint            `json:"-" gorm:"index;not null"`
	ProductID       uint            `json:"product_id" gorm:"not null"`
	Product         *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	HSCode          string          `json:"hs_code" gorm:"size:20"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:numeric(10,2);not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	ValueExclTax    decimal.Decimal `json:"value_excl_tax" gorm:"type:numeric(14,2);not null"`
	SalesTax        decimal.Decimal `json:"sales_tax" gorm:"type:numeric(14,2);not null"`
	FurtherTax      decimal.Decimal `json:"further_tax" gorm:"type:numeric(14,2);default:0"`
	CVT             decimal.Decimal `json:"c_v_t" gorm:"column:c_v_t;type:numeric(14,2);default:0"`
	WHTax1          decimal.Decimal `json:"w_h_tax_1" gorm:"column:w_h_tax_1;type:numeric(14,2);default:0"`
	WHTax2          decimal.Decimal `json:"w_h_tax_2" gorm:"column:w_h_tax_2;type:numeric(14,2);default:0"`
	Discount        decimal.Decimal `json:"discount" gorm:"type:numeric(14,2);default:0"`
	SROItemSerialNo string          `json:"sro_item_serial_no" gorm:"size:10"`
	LineTotal       decimal.Decimal `json:"line_total" gorm:"type:numeric(14,2);not null"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Payment is one tender against a sale. Details carries method-specific
// structured data (card type, transaction reference, ...).
type Payment struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SaleID      uint            `json:"-" gorm:"index;not null"`
	Method      string          `json:"method" gorm:"size:30;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	PaymentDate time.Time       `json:"payment_date" gorm:"not null"`
	Details     datatypes.JSON  `json:"details"`
}
