package server

import (
	"doubtdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AnswerInput represents answer creation and update request data
type AnswerInput struct {
	Answer string `json:"answer"`
}

// CreateAnswer appends an answer to a question's collection.
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	var input AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerSvc.AppendAnswer(c.Context(), sessionSubject(c), c.Params("id"), input.Answer)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(answer)
}

// UpdateAnswer replaces the text of the identified answer.
func (s *Server) UpdateAnswer(c *fiber.Ctx) error {
	var input AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	err := s.answerSvc.UpdateAnswer(c.Context(), sessionSubject(c),
		c.Params("id"), c.Params("answerId"), input.Answer)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Answer updated"})
}

// DeleteAnswer removes the identified answer from the collection.
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	err := s.answerSvc.DeleteAnswer(c.Context(), sessionSubject(c),
		c.Params("id"), c.Params("answerId"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Answer deleted"})
}
