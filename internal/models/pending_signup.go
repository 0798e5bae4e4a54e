package models

import (
	"time"
)

// PendingSignup is the server-side record of a signup awaiting email
// verification. Rows older than 24 hours are purged by the hourly sweep.
type PendingSignup struct {
	UID       string    `gorm:"primaryKey;size:64" json:"uid"`
	Email     string    `gorm:"index;not null" json:"email"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	CreatedAt time.Time `json:"created_at"`
}
