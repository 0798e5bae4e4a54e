package repository

import (
	"context"
	"time"

	"doubtdesk/internal/models"

	"gorm.io/gorm"
)

// PendingRepository manages server-side pending-signup records.
type PendingRepository interface {
	Create(ctx context.Context, pending *models.PendingSignup) error
	DeleteByUID(ctx context.Context, uid string) error
	DeleteByEmail(ctx context.Context, email string) error
	// DeleteExpired purges records created before the cutoff and returns
	// how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type pendingRepository struct {
	db *gorm.DB
}

// NewPendingRepository creates a new pending-signup repository
func NewPendingRepository(db *gorm.DB) PendingRepository {
	return &pendingRepository{db: db}
}

func (r *pendingRepository) Create(ctx context.Context, pending *models.PendingSignup) error {
	if err := r.db.WithContext(ctx).Create(pending).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pendingRepository) DeleteByUID(ctx context.Context, uid string) error {
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&models.PendingSignup{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pendingRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.PendingSignup{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pendingRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at <= ?", cutoff).
		Delete(&models.PendingSignup{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
