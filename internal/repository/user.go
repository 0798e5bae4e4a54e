// Package repository provides GORM-backed data access for the application's
// domain records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doubtdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stat columns that may be atomically incremented on a profile.
const (
	StatQuestionsAsked = "questions_asked"
	StatAnswersGiven   = "answers_given"
)

// UserRepository defines the interface for profile data operations
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// CreateIfAbsent inserts the profile only when no row with the same ID
	// exists. Returns true when the insert happened.
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	Update(ctx context.Context, user *models.User) error
	// UpdateFields applies a partial update to the profile row.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// IncrementStat adds delta to a whitelisted numeric column and stamps
	// last_active in the same write.
	IncrementStat(ctx context.Context, id, column string, delta int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil for not found, not an error
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) IncrementStat(ctx context.Context, id, column string, delta int) error {
	if column != StatQuestionsAsked && column != StatAnswersGiven {
		return models.NewValidationError(fmt.Sprintf("unknown stat column %q", column))
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			column:        gorm.Expr(column+" + ?", delta),
			"last_active": time.Now(),
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
