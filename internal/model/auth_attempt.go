package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthAttempt records a successful authentication lookup. Rows are
// append-only: nothing in the service updates or deletes them.
type AuthAttempt struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"type:char(36);index;not null"`
	IPAddress  string    `json:"ipAddress" gorm:"size:45"`
	DidSucceed bool      `json:"didSucceed"`
	// CreatedAt is set explicitly by the caller in server-local time,
	// matching the stored representation expected by downstream readers.
	CreatedAt time.Time `json:"createdAt"`
}
