package service

import (
	"context"
	"strings"
	"time"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"
	"doubtdesk/internal/repository"
)

// ProfileService reads and maintains member profiles.
type ProfileService struct {
	userRepo    repository.UserRepository
	orgDomain   string
	institution string
}

// NewProfileService creates the profile store.
func NewProfileService(userRepo repository.UserRepository, orgDomain, institution string) *ProfileService {
	return &ProfileService{userRepo: userRepo, orgDomain: orgDomain, institution: institution}
}

// FetchUserData returns the subject's profile, lazily materializing a
// default one on first access. Returns nil without error when there is no
// session subject. An existing profile is never overwritten.
func (s *ProfileService) FetchUserData(ctx context.Context, subject auth.Subject) (*models.User, error) {
	if subject.UID == "" {
		return nil, nil
	}

	profile, err := s.userRepo.GetByID(ctx, subject.UID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	now := time.Now()
	defaultProfile := &models.User{
		ID:          subject.UID,
		Email:       subject.Email,
		Name:        defaultDisplayName(subject.Email),
		Verified:    false,
		Role:        models.RoleStudent,
		Institution: s.institution,
		OrgDomain:   s.orgDomain,
		CreatedAt:   now,
		LastLogin:   now,
	}
	inserted, err := s.userRepo.CreateIfAbsent(ctx, defaultProfile)
	if err != nil {
		return nil, err
	}
	if inserted {
		return defaultProfile, nil
	}
	// Lost the create race; somebody else materialized the profile first.
	return s.userRepo.GetByID(ctx, subject.UID)
}

// UpdateUserStats increments a whitelisted counter by one and stamps
// last-active. Invoked after answer-count-changing operations.
func (s *ProfileService) UpdateUserStats(ctx context.Context, uid, field string) error {
	return s.userRepo.IncrementStat(ctx, uid, field, 1)
}

func defaultDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "User"
}
