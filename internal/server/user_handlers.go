package server

import (
	"doubtdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the caller's profile, materializing a default one on
// first access.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileSvc.FetchUserData(c.Context(), sessionSubject(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthenticatedError())
	}
	return c.JSON(profile)
}
