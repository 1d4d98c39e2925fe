package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account in the system.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string    `json:"firstName" gorm:"size:64;not null"`
	LastName     string    `json:"lastName,omitempty" gorm:"size:64"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:512;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsAdmin      bool      `json:"isAdmin" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
