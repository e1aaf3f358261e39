package models

import "time"

// Customer is an optional buyer on a sale. NTN holds the buyer's NTN or CNIC
// (up to 9 characters); walk-in sales carry no customer at all.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:150;not null"`
	NTN       string    `json:"ntn" gorm:"column:ntn;size:9"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Address   string    `json:"address" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
