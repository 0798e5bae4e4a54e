package repository

import (
	"context"
	"errors"

	"doubtdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository manages the single persisted category registry row.
type CategoryRepository interface {
	// Get returns the registry list, or an empty list when the registry row
	// has never been written.
	Get(ctx context.Context) ([]string, error)
	// Save upserts the registry row with the given list.
	Save(ctx context.Context, list []string) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category registry repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Get(ctx context.Context) ([]string, error) {
	var registry models.CategoryRegistry
	err := r.db.WithContext(ctx).Where("id = ?", models.RegistryID).First(&registry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return registry.List, nil
}

func (r *categoryRepository) Save(ctx context.Context, list []string) error {
	registry := models.CategoryRegistry{
		ID:   models.RegistryID,
		List: list,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&registry).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
