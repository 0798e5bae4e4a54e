package models

import (
	"time"
)

// Activity actions recorded by the background activity writer.
const (
	ActivityLogin          = "user_login"
	ActivitySignup         = "user_signup"
	ActivityAskQuestion    = "ask_question"
	ActivityDeleteQuestion = "delete_question"
	ActivityAnswer         = "give_answer"
	ActivityEditAnswer     = "edit_answer"
	ActivityDeleteAnswer   = "delete_answer"
	ActivityUpvote         = "upvote_question"
)

// ActivityLog is a best-effort audit record. Writes are fire-and-forget:
// failures are logged but never surface to the triggering operation.
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    string            `gorm:"index" json:"user_id"`
	Action    string            `gorm:"not null" json:"action"`
	Details   map[string]string `gorm:"serializer:json" json:"details"`
	CreatedAt time.Time         `json:"created_at"`
}
