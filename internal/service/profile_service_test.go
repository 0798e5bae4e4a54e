package service

import (
	"context"
	"testing"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_UpdateUserStats(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	var gotColumn string
	var gotDelta int
	userRepo.incrementStatFn = func(_ context.Context, id, column string, delta int) error {
		gotColumn = column
		gotDelta = delta
		return nil
	}
	svc := NewProfileService(userRepo, "pccoepune.org", "PCCOE")

	require.NoError(t, svc.UpdateUserStats(context.Background(), "uid-1", "answers_given"))
	assert.Equal(t, "answers_given", gotColumn)
	assert.Equal(t, 1, gotDelta)
}

func TestProfileService_FetchUserData(t *testing.T) {
	t.Parallel()

	t.Run("No session means no profile and no error", func(t *testing.T) {
		svc := NewProfileService(noopUserRepo(), "pccoepune.org", "PCCOE")
		profile, err := svc.FetchUserData(context.Background(), auth.Subject{})
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("Existing profile returned untouched", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, string) (*models.User, error) {
			return &models.User{ID: "uid-1", Name: "Asha", QuestionsAsked: 7}, nil
		}
		created := false
		userRepo.createIfAbsentFn = func(context.Context, *models.User) (bool, error) {
			created = true
			return true, nil
		}
		svc := NewProfileService(userRepo, "pccoepune.org", "PCCOE")

		profile, err := svc.FetchUserData(context.Background(), auth.Subject{UID: "uid-1", Email: "asha@pccoepune.org"})
		require.NoError(t, err)
		assert.Equal(t, "Asha", profile.Name)
		assert.Equal(t, 7, profile.QuestionsAsked)
		assert.False(t, created)
	})

	t.Run("Default profile synthesized on first access", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, string) (*models.User, error) { return nil, nil }
		var inserted *models.User
		userRepo.createIfAbsentFn = func(_ context.Context, user *models.User) (bool, error) {
			inserted = user
			return true, nil
		}
		svc := NewProfileService(userRepo, "pccoepune.org", "PCCOE")

		profile, err := svc.FetchUserData(context.Background(), auth.Subject{UID: "uid-1", Email: "asha.patil@pccoepune.org"})
		require.NoError(t, err)
		require.NotNil(t, inserted)
		assert.Equal(t, "asha.patil", profile.Name)
		assert.Equal(t, models.RoleStudent, profile.Role)
		assert.False(t, profile.Verified)
	})

	t.Run("Lost create race re-reads the winner", func(t *testing.T) {
		userRepo := noopUserRepo()
		calls := 0
		userRepo.getByIDFn = func(context.Context, string) (*models.User, error) {
			calls++
			if calls == 1 {
				return nil, nil
			}
			return &models.User{ID: "uid-1", Name: "Winner"}, nil
		}
		userRepo.createIfAbsentFn = func(context.Context, *models.User) (bool, error) {
			return false, nil
		}
		svc := NewProfileService(userRepo, "pccoepune.org", "PCCOE")

		profile, err := svc.FetchUserData(context.Background(), auth.Subject{UID: "uid-1", Email: "asha@pccoepune.org"})
		require.NoError(t, err)
		assert.Equal(t, "Winner", profile.Name)
		assert.Equal(t, 2, calls)
	})
}
