package service

import (
	"context"
	"strings"

	"doubtdesk/internal/models"
	"doubtdesk/internal/repository"
)

// CategoryService reconciles the persisted category registry with the
// labels observed on existing questions. Labels are compared
// case-insensitively; the casing of the first insertion wins.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
}

// NewCategoryService creates the category registry service.
func NewCategoryService(categoryRepo repository.CategoryRepository, questionRepo repository.QuestionRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, questionRepo: questionRepo}
}

// FetchCategories returns the union of the registry and the categories
// observed on content, persisting the merged list so the store converges
// over repeated calls. Registry order first, newly discovered labels after.
func (s *CategoryService) FetchCategories(ctx context.Context) ([]string, error) {
	registered, err := s.categoryRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	observed, err := s.questionRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}

	merged := models.MergeCategories(registered, observed)
	if err := s.categoryRepo.Save(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// UpdateCategories registers a new label. Empty or whitespace input is a
// no-op; a label already present (any casing) returns the unchanged list
// without a write, making repeated registration idempotent.
func (s *CategoryService) UpdateCategories(ctx context.Context, label string) ([]string, error) {
	current, err := s.categoryRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return current, nil
	}
	if models.ContainsCategory(current, label) {
		return current, nil
	}

	updated := append(append([]string{}, current...), label)
	if err := s.categoryRepo.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// InitializeCategories runs the union-and-converge pass once at startup,
// writing only when the merged set strictly grows.
func (s *CategoryService) InitializeCategories(ctx context.Context) error {
	registered, err := s.categoryRepo.Get(ctx)
	if err != nil {
		return err
	}
	observed, err := s.questionRepo.DistinctCategories(ctx)
	if err != nil {
		return err
	}

	merged := models.MergeCategories(registered, observed)
	if len(merged) > len(registered) {
		return s.categoryRepo.Save(ctx, merged)
	}
	return nil
}
