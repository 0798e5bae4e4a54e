package service

import (
	"context"
	"strings"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"
	"doubtdesk/internal/repository"

	"github.com/google/uuid"
)

const maxTitleLen = 300

// QuestionService owns question records and their lifecycle. Registering a
// brand-new category with the registry is the caller's second step: the two
// writes are independent and non-atomic, and the registry reconciliation
// pass heals a failed second step.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	askedRepo    repository.AskedRepository
	activity     *ActivityService
}

// NewQuestionService creates the question repository service. activity may
// be nil.
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	askedRepo repository.AskedRepository,
	activity *ActivityService,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		userRepo:     userRepo,
		askedRepo:    askedRepo,
		activity:     activity,
	}
}

// CreateQuestion stamps the author identity and creation time, initializes
// an empty answer collection, and returns the stored question.
func (s *QuestionService) CreateQuestion(ctx context.Context, subject auth.Subject, title, category string) (*models.Question, error) {
	if subject.UID == "" {
		return nil, models.NewUnauthenticatedError()
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, models.NewValidationError("Category is required")
	}

	question := &models.Question{
		ID:          uuid.NewString(),
		Title:       title,
		Category:    category,
		AuthorID:    subject.UID,
		AuthorEmail: subject.Email,
		Answers:     models.AnswerList{},
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	if err := s.userRepo.IncrementStat(ctx, subject.UID, repository.StatQuestionsAsked, 1); err != nil {
		return nil, err
	}
	if err := s.askedRepo.AppendTitle(ctx, subject.Email, title); err != nil {
		return nil, err
	}

	s.activity.Enqueue(subject.UID, models.ActivityAskQuestion, map[string]string{
		"question_id": question.ID,
		"category":    category,
	})
	return question, nil
}

// FetchQuestions returns all questions newest-first, optionally restricted
// to an exact category match, with display-friendly date strings.
func (s *QuestionService) FetchQuestions(ctx context.Context, categoryFilter string) ([]*models.Question, error) {
	questions, err := s.questionRepo.List(ctx, strings.TrimSpace(categoryFilter))
	if err != nil {
		return nil, err
	}
	decorateQuestions(questions)
	return questions, nil
}

// FetchAskedQuestions returns the subject's own questions newest-first.
func (s *QuestionService) FetchAskedQuestions(ctx context.Context, subject auth.Subject) ([]*models.Question, error) {
	if subject.UID == "" {
		return nil, models.NewUnauthenticatedError()
	}
	questions, err := s.questionRepo.ListByAuthor(ctx, subject.UID)
	if err != nil {
		return nil, err
	}
	decorateQuestions(questions)
	return questions, nil
}

// DeleteQuestion removes a question and its embedded answers in one
// operation. Authorship is re-verified against the stored record rather
// than trusting the UI gate.
func (s *QuestionService) DeleteQuestion(ctx context.Context, subject auth.Subject, id string) error {
	if subject.UID == "" {
		return models.NewUnauthenticatedError()
	}
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if question.AuthorID != subject.UID {
		return models.NewUnauthorizedError("You can only delete your own questions")
	}
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Enqueue(subject.UID, models.ActivityDeleteQuestion, map[string]string{
		"question_id": id,
	})
	return nil
}

// UpvoteQuestion records a once-per-member upvote: the question id joins the
// member's upvoted list and the question's counter is incremented atomically.
func (s *QuestionService) UpvoteQuestion(ctx context.Context, subject auth.Subject, id string) error {
	if subject.UID == "" {
		return models.NewUnauthenticatedError()
	}
	if _, err := s.questionRepo.GetByID(ctx, id); err != nil {
		return err
	}

	voter, err := s.userRepo.GetByID(ctx, subject.UID)
	if err != nil {
		return err
	}
	if voter == nil {
		return models.NewAccountNotFoundError()
	}
	if voter.HasUpvoted(id) {
		return models.NewValidationError("You have already upvoted this question")
	}

	voter.UpvotedQuestions = append(voter.UpvotedQuestions, id)
	if err := s.userRepo.Update(ctx, voter); err != nil {
		return err
	}
	if err := s.questionRepo.IncrementUpvotes(ctx, id); err != nil {
		return err
	}

	s.activity.Enqueue(subject.UID, models.ActivityUpvote, map[string]string{
		"question_id": id,
	})
	return nil
}

func decorateQuestions(questions []*models.Question) {
	for _, q := range questions {
		q.CreatedAtDisplay = models.FormatDisplayDate(q.CreatedAt)
		if q.Answers == nil {
			q.Answers = models.AnswerList{}
		}
	}
}
