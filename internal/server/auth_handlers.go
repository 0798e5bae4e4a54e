package server

import (
	"strings"

	"doubtdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SignupInput represents signup request data
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// LoginInput represents login request data
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailInput carries the address from the followed verification link.
type VerifyEmailInput struct {
	Email string `json:"email"`
}

// Signup handles user registration. The account stays unverified until the
// emailed link is followed; no session is issued here.
func (s *Server) Signup(c *fiber.Ctx) error {
	var input SignupInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.Surname = strings.TrimSpace(input.Surname)
	if input.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name is required"))
	}

	if err := s.authSvc.Signup(c.Context(), input.Email, input.Password, input.Name, input.Surname); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Verification email sent! Please check your inbox.",
	})
}

// Login authenticates a user and returns a token with the profile.
func (s *Server) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	subject, err := s.authSvc.Login(c.Context(), strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	profile, err := s.profileSvc.FetchUserData(c.Context(), subject)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	token, err := s.generateToken(subject)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  profile,
	})
}

// Logout ends the caller's session.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.authSvc.Logout(c.Context(), sessionSubject(c))
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// VerifyEmail completes the two-phase signup after the link was followed.
func (s *Server) VerifyEmail(c *fiber.Ctx) error {
	var input VerifyEmailInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.authSvc.VerifyEmailLink(c.Context(), strings.TrimSpace(input.Email)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Email verified"})
}
