package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"
	"doubtdesk/internal/repository"

	"github.com/google/uuid"
)

const (
	maxAnswerLen = 10000
	// Attempts per mutation before giving up on the version-guarded write.
	maxAnswerWriteAttempts = 3
)

// AnswerService mutates the embedded answer collection inside a question.
// Every mutation is a read-modify-write of the whole collection guarded by
// the question's version token and retried on conflict, so concurrent
// writers cannot silently drop each other's answers. Answers are addressed
// by their generated ID.
//
// The author's answers-given counter is a second, independent write; a crash
// between the two leaves non-fatal counter drift.
type AnswerService struct {
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	activity     *ActivityService
}

// NewAnswerService creates the answer sub-collection manager. activity may
// be nil.
func NewAnswerService(
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	activity *ActivityService,
) *AnswerService {
	return &AnswerService{questionRepo: questionRepo, userRepo: userRepo, activity: activity}
}

// AppendAnswer appends a new answer and returns it for immediate display.
func (s *AnswerService) AppendAnswer(ctx context.Context, subject auth.Subject, questionID, text string) (*models.Answer, error) {
	if subject.UID == "" {
		return nil, models.NewUnauthenticatedError()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Answer text is required")
	}
	if len(text) > maxAnswerLen {
		return nil, models.NewValidationError("Answer too long (max 10000 characters)")
	}

	now := time.Now()
	answer := models.Answer{
		ID:        uuid.NewString(),
		Author:    subject.Email,
		Answer:    text,
		UserID:    subject.UID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.mutateAnswers(ctx, questionID, func(answers models.AnswerList) (models.AnswerList, error) {
		return append(answers, answer), nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.IncrementStat(ctx, subject.UID, repository.StatAnswersGiven, 1); err != nil {
		return nil, err
	}

	s.activity.Enqueue(subject.UID, models.ActivityAnswer, map[string]string{
		"question_id": questionID,
		"answer_id":   answer.ID,
	})
	return &answer, nil
}

// UpdateAnswer replaces the text of the identified answer, preserving the
// collection length and the answer's position; only the text and the
// updated-at stamp change. An unknown answer ID is an explicit not-found.
func (s *AnswerService) UpdateAnswer(ctx context.Context, subject auth.Subject, questionID, answerID, newText string) error {
	if subject.UID == "" {
		return models.NewUnauthenticatedError()
	}
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return models.NewValidationError("Answer text is required")
	}

	err := s.mutateAnswers(ctx, questionID, func(answers models.AnswerList) (models.AnswerList, error) {
		idx := answers.IndexOf(answerID)
		if idx < 0 {
			return nil, models.NewNotFoundError("Answer", answerID)
		}
		if answers[idx].UserID != subject.UID {
			return nil, models.NewUnauthorizedError("You can only edit your own answers")
		}
		answers[idx].Answer = newText
		answers[idx].UpdatedAt = time.Now()
		return answers, nil
	})
	if err != nil {
		return err
	}

	s.activity.Enqueue(subject.UID, models.ActivityEditAnswer, map[string]string{
		"question_id": questionID,
		"answer_id":   answerID,
	})
	return nil
}

// DeleteAnswer removes the identified answer and decrements the author's
// answers-given counter.
func (s *AnswerService) DeleteAnswer(ctx context.Context, subject auth.Subject, questionID, answerID string) error {
	if subject.UID == "" {
		return models.NewUnauthenticatedError()
	}

	err := s.mutateAnswers(ctx, questionID, func(answers models.AnswerList) (models.AnswerList, error) {
		idx := answers.IndexOf(answerID)
		if idx < 0 {
			return nil, models.NewNotFoundError("Answer", answerID)
		}
		if answers[idx].UserID != subject.UID {
			return nil, models.NewUnauthorizedError("You can only delete your own answers")
		}
		return append(answers[:idx], answers[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	if err := s.userRepo.IncrementStat(ctx, subject.UID, repository.StatAnswersGiven, -1); err != nil {
		return err
	}

	s.activity.Enqueue(subject.UID, models.ActivityDeleteAnswer, map[string]string{
		"question_id": questionID,
		"answer_id":   answerID,
	})
	return nil
}

// mutateAnswers runs the read-modify-write cycle: load the question, apply
// the mutation to a copy of its collection, and write the result back under
// the version token. A conflicting concurrent writer triggers a re-read and
// retry, bounded by maxAnswerWriteAttempts.
func (s *AnswerService) mutateAnswers(ctx context.Context, questionID string, mutate func(models.AnswerList) (models.AnswerList, error)) error {
	for attempt := 0; attempt < maxAnswerWriteAttempts; attempt++ {
		question, err := s.questionRepo.GetByID(ctx, questionID)
		if err != nil {
			return err
		}

		working := make(models.AnswerList, len(question.Answers))
		copy(working, question.Answers)

		updated, err := mutate(working)
		if err != nil {
			return err
		}

		err = s.questionRepo.ReplaceAnswers(ctx, questionID, updated, question.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
	}
	return models.NewConflictError("Question was modified concurrently; please retry")
}
