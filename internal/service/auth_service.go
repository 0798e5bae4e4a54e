// Package service implements the data-access and consistency layer: identity,
// profiles, categories, questions with their embedded answer collections, and
// the pending-verification handshake. Handlers stay thin; every rule lives
// here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"
	"doubtdesk/internal/repository"
	"doubtdesk/internal/stage"
)

const minPasswordLen = 6

// AuthService is the identity gate plus the pending-verification handshake.
// Session subjects are passed in explicitly; the service keeps no ambient
// current-user state.
type AuthService struct {
	provider    auth.Provider
	userRepo    repository.UserRepository
	pendingRepo repository.PendingRepository
	stage       stage.Stage
	activity    *ActivityService
	orgDomain   string
	institution string
	logger      *slog.Logger
}

// NewAuthService wires the identity gate. activity may be nil.
func NewAuthService(
	provider auth.Provider,
	userRepo repository.UserRepository,
	pendingRepo repository.PendingRepository,
	signupStage stage.Stage,
	activity *ActivityService,
	orgDomain, institution string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		provider:    provider,
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		stage:       signupStage,
		activity:    activity,
		orgDomain:   orgDomain,
		institution: institution,
		logger:      logger,
	}
}

// ValidateOrgEmail checks the organizational domain suffix without touching
// the provider or the store.
func (s *AuthService) ValidateOrgEmail(email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return models.NewInvalidFormatError(fmt.Sprintf("Please use your college email (@%s)", s.orgDomain))
	}
	if !strings.EqualFold(email[at+1:], s.orgDomain) {
		return models.NewInvalidFormatError(fmt.Sprintf("Please use your college email (@%s)", s.orgDomain))
	}
	return nil
}

// Login signs the user in and returns the session subject. When credentials
// check out but no profile record exists, the provider session is signed out
// again before AccountNotFound is raised, so no partial session survives.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.Subject, error) {
	if err := s.ValidateOrgEmail(email); err != nil {
		return auth.Subject{}, err
	}

	subject, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return auth.Subject{}, s.classifyProviderError(err)
	}

	profile, err := s.userRepo.GetByID(ctx, subject.UID)
	if err != nil {
		return auth.Subject{}, err
	}
	if profile == nil {
		if serr := s.provider.SignOut(ctx, subject.UID); serr != nil {
			s.logger.WarnContext(ctx, "sign-out after missing profile failed",
				slog.String("uid", subject.UID), slog.String("error", serr.Error()))
		}
		return auth.Subject{}, models.NewAccountNotFoundError()
	}

	err = s.userRepo.UpdateFields(ctx, subject.UID, map[string]interface{}{
		"last_login":     time.Now(),
		"verified":       true,
		"email_verified": true,
	})
	if err != nil {
		return auth.Subject{}, err
	}

	s.activity.Enqueue(subject.UID, models.ActivityLogin, nil)
	return subject, nil
}

// Signup registers a provider account, creates an unverified profile, sends
// the verification message, and stages the signup for later completion. It
// does not log the user in.
func (s *AuthService) Signup(ctx context.Context, email, password, name, surname string) error {
	if err := s.ValidateOrgEmail(email); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return models.NewWeakCredentialError(
			fmt.Sprintf("Password should be at least %d characters long", minPasswordLen))
	}

	methods, err := s.provider.ListSignInMethods(ctx, email)
	if err != nil {
		return s.classifyProviderError(err)
	}
	if len(methods) > 0 {
		return models.NewAlreadyRegisteredError(email)
	}

	subject, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return s.classifyProviderError(err)
	}

	now := time.Now()
	profile := &models.User{
		ID:          subject.UID,
		Email:       email,
		Name:        name,
		Surname:     surname,
		Verified:    false,
		Role:        models.RoleStudent,
		Institution: s.institution,
		OrgDomain:   s.orgDomain,
		CreatedAt:   now,
		LastLogin:   now,
	}
	if err := s.userRepo.Create(ctx, profile); err != nil {
		return err
	}

	if err := s.provider.SendVerification(ctx, subject); err != nil {
		return s.classifyProviderError(err)
	}

	staged := stage.PendingSignup{
		Email:   email,
		Name:    name,
		Surname: surname,
		UID:     subject.UID,
	}
	if err := s.stage.Put(ctx, staged); err != nil {
		return err
	}
	err = s.pendingRepo.Create(ctx, &models.PendingSignup{
		UID:     subject.UID,
		Email:   email,
		Name:    name,
		Surname: surname,
	})
	if err != nil {
		return err
	}

	s.activity.Enqueue(subject.UID, models.ActivitySignup, nil)
	return nil
}

// Logout ends the session. Provider-level failures are logged and swallowed;
// the caller's session state is cleared regardless.
func (s *AuthService) Logout(ctx context.Context, subject auth.Subject) {
	if subject.UID == "" {
		return
	}
	if err := s.provider.SignOut(ctx, subject.UID); err != nil {
		s.logger.WarnContext(ctx, "provider sign-out failed",
			slog.String("uid", subject.UID), slog.String("error", err.Error()))
	}
}

// VerifyEmailLink completes the two-phase signup once the emailed link was
// followed. The staged data is merged into the profile (fields not listed
// are preserved) and the stage is cleared.
func (s *AuthService) VerifyEmailLink(ctx context.Context, email string) error {
	staged, err := s.stage.Get(ctx, email)
	if err != nil {
		return err
	}
	if staged == nil {
		return models.NewNoPendingSignupError()
	}

	err = s.userRepo.UpdateFields(ctx, staged.UID, map[string]interface{}{
		"name":             staged.Name,
		"surname":          staged.Surname,
		"email":            staged.Email,
		"verified":         true,
		"email_verified":   true,
		"profile_complete": true,
		"institution":      s.institution,
		"org_domain":       s.orgDomain,
		"last_login":       time.Now(),
	})
	if err != nil {
		return err
	}

	if err := s.stage.Clear(ctx, email); err != nil {
		return err
	}
	if err := s.pendingRepo.DeleteByUID(ctx, staged.UID); err != nil {
		// Server-side pending rows are also purged by the hourly sweep, so a
		// failed delete here only delays cleanup.
		s.logger.WarnContext(ctx, "pending-signup cleanup failed",
			slog.String("uid", staged.UID), slog.String("error", err.Error()))
	}
	return nil
}

// classifyProviderError maps recognizable provider failures onto the stable
// error taxonomy and passes everything else through with its message.
func (s *AuthService) classifyProviderError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return models.NewUnauthorizedError("Invalid email or password. Please try again.")
	case errors.Is(err, auth.ErrRateLimited):
		return models.NewRateLimitedError()
	case errors.Is(err, auth.ErrEmailTaken):
		return &models.AppError{Code: models.CodeAlreadyRegistered, Message: "This email is already registered"}
	default:
		return models.NewUnknownError(err)
	}
}
