package models

import (
	"time"
)

// Roles assigned to profiles. Every self-served signup starts as a student.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a member profile keyed by the provider-assigned subject ID.
// Profiles are created lazily on first fetch or eagerly during signup, and
// are never deleted by the application.
type User struct {
	ID               string     `gorm:"primaryKey;size:64" json:"id"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Name             string     `json:"name"`
	Surname          string     `json:"surname"`
	Verified         bool       `json:"verified"`
	EmailVerified    bool       `json:"email_verified"`
	Role             string     `gorm:"default:student" json:"role"`
	QuestionsAsked   int        `json:"questions_asked"`
	AnswersGiven     int        `json:"answers_given"`
	ProfileComplete  bool       `json:"profile_complete"`
	Institution      string     `json:"institution"`
	OrgDomain        string     `json:"org_domain"`
	UpvotedQuestions StringList `gorm:"serializer:json" json:"upvoted_questions"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLogin        time.Time  `json:"last_login"`
	LastActive       time.Time  `json:"last_active"`
}

// HasUpvoted reports whether the user already upvoted the given question.
func (u *User) HasUpvoted(questionID string) bool {
	for _, id := range u.UpvotedQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// StringList is a JSON-serialized list of strings stored in a single column.
type StringList []string
