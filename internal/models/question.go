package models

import (
	"time"
)

// Answer is a sub-record embedded in a question's answer collection. Answers
// are not independently addressable documents: they live inside the owning
// question row and are located by their generated ID.
type Answer struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Answer    string    `json:"answer"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnswerList is the ordered embedded answer collection, JSON-serialized into
// the question row.
type AnswerList []Answer

// IndexOf returns the position of the answer with the given ID, or -1.
func (l AnswerList) IndexOf(answerID string) int {
	for i := range l {
		if l[i].ID == answerID {
			return i
		}
	}
	return -1
}

// Question is a posted doubt. The answer collection is embedded rather than
// relational, so every answer mutation is a read-modify-write of the whole
// collection guarded by the Version token.
type Question struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Category    string     `gorm:"index" json:"category"`
	AuthorID    string     `gorm:"index;not null" json:"author_id"`
	AuthorEmail string     `json:"author_email"`
	Upvotes     int        `json:"upvotes"`
	Version     int        `json:"-"`
	Answers     AnswerList `gorm:"serializer:json" json:"answers"`
	CreatedAt   time.Time  `json:"created_at"`
	// CreatedAtDisplay is not persisted; populated at query time
	CreatedAtDisplay string `gorm:"-" json:"created_at_display"`
}

// FormatDisplayDate normalizes a timestamp into the date string shown in
// question listings.
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("1/2/2006")
}
