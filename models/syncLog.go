package models

import (
	"time"

	"gorm.io/datatypes"
)

// InvoiceSyncLog is the append-only audit trail of FBR sync attempts: one row
// per attempt, never updated or deleted after insertion. Status is a snapshot
// of the attempt's outcome at the time the row was written.
type InvoiceSyncLog struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	SaleID      uint           `json:"sale_id" gorm:"index;not null"`
	AttemptNo   int            `json:"attempt_no" gorm:"not null"`
	Payload     datatypes.JSON `json:"payload"`
	Response    datatypes.JSON `json:"response"`
	Status      FBRStatus      `json:"status" gorm:"size:10;not null"`
	AttemptedAt time.Time      `json:"attempted_at" gorm:"not null"`
}

func (InvoiceSyncLog) TableName() string { return "invoice_sync_log" }
