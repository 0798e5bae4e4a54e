package server

import (
	"log/slog"

	"doubtdesk/internal/models"
	"doubtdesk/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// CreateQuestionInput represents question creation request data
type CreateQuestionInput struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// CreateQuestion stores a new question and then registers its category with
// the registry. The two writes are independent; a failed second step is
// logged and healed by the startup reconciliation pass.
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	var input CreateQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionSvc.CreateQuestion(c.Context(), sessionSubject(c), input.Title, input.Category)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if _, err := s.categorySvc.UpdateCategories(c.Context(), question.Category); err != nil {
		observability.Logger.Warn("category registration failed",
			slog.String("category", question.Category),
			slog.String("question_id", question.ID),
			slog.String("error", err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

// GetQuestions lists questions newest-first, optionally filtered by the
// ?category= query parameter.
func (s *Server) GetQuestions(c *fiber.Ctx) error {
	questions, err := s.questionSvc.FetchQuestions(c.Context(), c.Query("category"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{
		"questions": questions,
		"count":     len(questions),
	})
}

// GetAskedQuestions lists the caller's own questions newest-first.
func (s *Server) GetAskedQuestions(c *fiber.Ctx) error {
	questions, err := s.questionSvc.FetchAskedQuestions(c.Context(), sessionSubject(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{
		"questions": questions,
		"count":     len(questions),
	})
}

// DeleteQuestion removes a question together with its embedded answers.
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	if err := s.questionSvc.DeleteQuestion(c.Context(), sessionSubject(c), c.Params("id")); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Question deleted"})
}

// UpvoteQuestion records a once-per-member upvote.
func (s *Server) UpvoteQuestion(c *fiber.Ctx) error {
	if err := s.questionSvc.UpvoteQuestion(c.Context(), sessionSubject(c), c.Params("id")); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Upvoted"})
}
