package models

import "time"

// Device is a POS terminal registered under a branch. DeviceIdentifier is the
// hardware/installation identity; FBRPosReg is the authority-issued POS
// registration number. Both are unique.
type Device struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	BranchID         uint      `json:"branch_id" gorm:"not null"`
	Branch           *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	Name             string    `json:"name" gorm:"size:100;not null"`
	DeviceIdentifier string    `json:"device_identifier" gorm:"size:100;uniqueIndex;not null"`
	FBRPosReg        string    `json:"fbr_pos_reg" gorm:"size:20;uniqueIndex;not null"`
	CreatedAt        time.Time `json:"created_at"`
}
