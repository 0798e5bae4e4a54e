package repository

import (
	"context"
	"errors"

	"doubtdesk/internal/models"

	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a version-guarded write touched zero
// rows because another writer advanced the question's version token first.
var ErrVersionConflict = errors.New("question version conflict")

// QuestionRepository defines the interface for question data operations
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	// List returns questions newest-first, optionally restricted to an
	// exact category match when category is non-empty.
	List(ctx context.Context, category string) ([]*models.Question, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Question, error)
	Delete(ctx context.Context, id string) error
	// ReplaceAnswers writes the full embedded answer collection back,
	// guarded by the expected version token. ErrVersionConflict signals a
	// concurrent writer; the caller re-reads and retries.
	ReplaceAnswers(ctx context.Context, id string, answers models.AnswerList, expectedVersion int) error
	IncrementUpvotes(ctx context.Context, id string) error
	// DistinctCategories returns the set of category labels observed on
	// existing questions.
	DistinctCategories(ctx context.Context) ([]string, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Question", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, category string) ([]*models.Question, error) {
	var questions []*models.Question
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&questions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	// Embedded answers live in the same row, so the delete removes them too.
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Question{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *questionRepository) ReplaceAnswers(ctx context.Context, id string, answers models.AnswerList, expectedVersion int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Select("answers", "version").
		Updates(&models.Question{Answers: answers, Version: expectedVersion + 1})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *questionRepository) IncrementUpvotes(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Update("upvotes", gorm.Expr("upvotes + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *questionRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Distinct("category").
		Where("category <> ''").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}
