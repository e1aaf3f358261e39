package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Code is the merchant's product code (unique);
// HSCode is the Harmonized System tariff classification reported to FBR.
type Product struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Code       string          `json:"code" gorm:"size:50;uniqueIndex;not null"`
	Name       string          `json:"name" gorm:"size:150;not null"`
	CategoryID *uint           `json:"category_id"`
	Category   *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	TaxID      *uint           `json:"tax_id" gorm:"column:tax_id"`
	TaxRate    *TaxRate        `json:"tax_rate,omitempty" gorm:"foreignKey:TaxID"`
	HSCode     string          `json:"hs_code" gorm:"size:20"`
	CreatedAt  time.Time       `json:"created_at"`
}
