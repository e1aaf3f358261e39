package models

import "github.com/shopspring/decimal"

// TaxRate is a named sales-tax rate. Code carries the FBR SRO schedule code
// when the rate comes from a statutory notification.
type TaxRate struct {
	ID   uint            `json:"id" gorm:"primaryKey"`
	Name string          `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Rate decimal.Decimal `json:"rate" gorm:"type:numeric(5,2);not null"`
	Code string          `json:"code" gorm:"size:20"`
}
