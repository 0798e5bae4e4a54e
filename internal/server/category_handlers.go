package server

import (
	"doubtdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CategoryInput represents category registration request data
type CategoryInput struct {
	Category string `json:"category"`
}

// GetCategories returns the merged registry, converging it with the
// categories observed on questions.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categorySvc.FetchCategories(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// AddCategory registers a new label; repeated registration is idempotent.
func (s *Server) AddCategory(c *fiber.Ctx) error {
	var input CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	categories, err := s.categorySvc.UpdateCategories(c.Context(), input.Category)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}
