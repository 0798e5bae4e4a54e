// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db        *gorm.DB
	orgDomain string
	rng       *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, orgDomain string) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:        db,
		orgDomain: orgDomain,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var sampleCategories = []string{
	"Data Structures", "Operating Systems", "DBMS", "Computer Networks",
	"Machine Learning", "Web Development", "Placements", "Mathematics",
}

// CreateUser constructs and persists a verified member together with its
// provider account. All seeded accounts share the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := gofakeit.FirstName()
	surname := gofakeit.LastName()
	email := fmt.Sprintf("%s.%s%d@%s",
		strings.ToLower(name), strings.ToLower(surname), gofakeit.Number(10, 99), f.orgDomain)

	user := &models.User{
		ID:              uuid.NewString(),
		Email:           email,
		Name:            name,
		Surname:         surname,
		Verified:        true,
		EmailVerified:   true,
		Role:            models.RoleStudent,
		ProfileComplete: true,
		Institution:     "PCCOE",
		OrgDomain:       f.orgDomain,
		CreatedAt:       f.pastTime(90),
		LastLogin:       f.pastTime(7),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	account := &auth.Account{
		UID:          user.ID,
		Email:        user.Email,
		PasswordHash: string(hashed),
		CreatedAt:    user.CreatedAt,
	}
	if err := f.db.Create(account).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateQuestion persists a question by the given author, optionally with a
// few answers from the supplied answerers.
func (f *Factory) CreateQuestion(author *models.User, answerers []*models.User) (*models.Question, error) {
	created := f.pastTime(60)
	question := &models.Question{
		ID:          uuid.NewString(),
		Title:       strings.TrimSuffix(gofakeit.Question(), "?") + "?",
		Category:    sampleCategories[f.rng.Intn(len(sampleCategories))],
		AuthorID:    author.ID,
		AuthorEmail: author.Email,
		Upvotes:     f.rng.Intn(20),
		Answers:     models.AnswerList{},
		CreatedAt:   created,
	}

	for _, answerer := range answerers {
		if f.rng.Intn(2) == 0 {
			continue
		}
		at := created.Add(time.Duration(f.rng.Intn(72)) * time.Hour)
		question.Answers = append(question.Answers, models.Answer{
			ID:        uuid.NewString(),
			Author:    answerer.Email,
			Answer:    gofakeit.Paragraph(1, 2, 8, " "),
			UserID:    answerer.ID,
			CreatedAt: at,
			UpdatedAt: at,
		})
	}

	if err := f.db.Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (f *Factory) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(f.rng.Intn(60)) * time.Minute)
}
