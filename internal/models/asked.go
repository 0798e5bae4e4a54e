package models

import (
	"time"
)

// AskedRecord keeps the running list of question titles a member has asked,
// keyed by email. Titles are appended on question creation and never pruned.
type AskedRecord struct {
	Email     string     `gorm:"primaryKey" json:"email"`
	Titles    StringList `gorm:"serializer:json" json:"titles"`
	UpdatedAt time.Time  `json:"updated_at"`
}
