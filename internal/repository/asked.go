package repository

import (
	"context"
	"errors"
	"time"

	"doubtdesk/internal/models"

	"gorm.io/gorm"
)

// AskedRepository tracks the titles each member has asked, keyed by email.
type AskedRepository interface {
	Get(ctx context.Context, email string) (*models.AskedRecord, error)
	// AppendTitle adds a title to the member's record, creating the record
	// on first use.
	AppendTitle(ctx context.Context, email, title string) error
}

type askedRepository struct {
	db *gorm.DB
}

// NewAskedRepository creates a new asked-titles repository
func NewAskedRepository(db *gorm.DB) AskedRepository {
	return &askedRepository{db: db}
}

func (r *askedRepository) Get(ctx context.Context, email string) (*models.AskedRecord, error) {
	var record models.AskedRecord
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &record, nil
}

func (r *askedRepository) AppendTitle(ctx context.Context, email, title string) error {
	record, err := r.Get(ctx, email)
	if err != nil {
		return err
	}
	if record == nil {
		record = &models.AskedRecord{Email: email}
	}
	record.Titles = append(record.Titles, title)
	record.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
