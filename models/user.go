package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	FullName       string    `json:"full_name" gorm:"size:100"`
	HashedPassword string    `json:"-" gorm:"size:128;not null"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	IsAdmin        bool      `json:"is_admin" gorm:"default:false"`
	BranchID       *uint     `json:"branch_id"`
	Branch         *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	CreatedAt      time.Time `json:"created_at"`
}

func (user *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hashed)
	return nil
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
}
