package models

import "time"

// Branch is a registered business location. NTN and STRN are the seller's
// fixed 7-digit tax registration numbers; FBRBranchCode is assigned by the
// authority and must be unique across all branches.
type Branch struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:100;not null"`
	Address       string    `json:"address" gorm:"type:text"`
	City          string    `json:"city" gorm:"size:50"`
	Province      string    `json:"province" gorm:"size:50"`
	NTN           string    `json:"ntn" gorm:"column:ntn;size:7;not null"`
	STRN          string    `json:"strn" gorm:"column:strn;size:7;not null"`
	FBRBranchCode string    `json:"fbr_branch_code" gorm:"size:20;uniqueIndex;not null"`
	SaleTypeCode  string    `json:"sale_type_code" gorm:"size:20;not null"` // e.g. 'T1000017'
	CreatedAt     time.Time `json:"created_at"`
}
