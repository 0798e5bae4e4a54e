package repository

import (
	"context"

	"doubtdesk/internal/models"

	"gorm.io/gorm"
)

// ActivityRepository appends audit records.
type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity log repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error) {
	var entries []*models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
